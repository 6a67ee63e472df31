package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Target beschreibt ein S3-kompatibles Ziel (AWS, MinIO, Strato ...).
type S3Target struct {
	URL    string
	Region string
	Key    string
	Secret string
	Bucket string
}

// Uploader is the part of the S3 client the exporters need.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client erstellt einen S3-Client. Ein leerer URL nutzt den Standard-Endpunkt von AWS.
func NewS3Client(ctx context.Context, t S3Target) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(t.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(t.Key, t.Secret, "")),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if t.URL != "" {
			o.BaseEndpoint = aws.String(t.URL)
			o.UsePathStyle = true
		}
	}), nil
}

// UploadFile lädt eine Datei ins S3 hoch und gibt den Link zurück.
func UploadFile(ctx context.Context, client Uploader, t S3Target, key string, data []byte, contentType string) (string, error) {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(t.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", t.Bucket, key, err)
	}
	base := strings.TrimRight(t.URL, "/")
	if base == "" {
		return fmt.Sprintf("s3://%s/%s", t.Bucket, key), nil
	}
	return fmt.Sprintf("%s/%s/%s", base, t.Bucket, key), nil
}
