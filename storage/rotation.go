package storage

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectStore umfasst die S3-Aufrufe für Upload und Rotation.
type ObjectStore interface {
	Uploader
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Object ist ein gespeichertes Objekt mit Änderungszeit.
type Object struct {
	Key          string
	LastModified time.Time
}

// ListKeys listet alle Objekte unter prefix, über alle Seiten hinweg.
func ListKeys(ctx context.Context, client ObjectStore, t S3Target, prefix string) ([]Object, error) {
	var out []Object
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(t.Bucket),
		Prefix: aws.String(prefix),
	}
	for {
		page, err := client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", t.Bucket, prefix, err)
		}
		out = append(out, toObjects(page.Contents)...)
		if !aws.ToBool(page.IsTruncated) || page.NextContinuationToken == nil {
			return out, nil
		}
		input.ContinuationToken = page.NextContinuationToken
	}
}

func toObjects(contents []types.Object) []Object {
	out := make([]Object, 0, len(contents))
	for _, o := range contents {
		out = append(out, Object{Key: aws.ToString(o.Key), LastModified: aws.ToTime(o.LastModified)})
	}
	return out
}

// StaleKeys liefert die Schlüssel aller Objekte außer den keep neuesten.
func StaleKeys(objects []Object, keep int) []string {
	if keep < 0 {
		keep = 0
	}
	if len(objects) <= keep {
		return nil
	}
	sorted := slices.Clone(objects)
	slices.SortFunc(sorted, func(a, b Object) int {
		return b.LastModified.Compare(a.LastModified)
	})
	keys := make([]string, 0, len(sorted)-keep)
	for _, o := range sorted[keep:] {
		keys = append(keys, o.Key)
	}
	return keys
}

// DeleteKeys löscht die Objekte einzeln. Fehler werden gesammelt, damit ein
// einzelnes Objekt die Rotation nicht abbricht.
func DeleteKeys(ctx context.Context, client ObjectStore, t S3Target, keys []string) (deleted []string, failed map[string]error) {
	failed = map[string]error{}
	for _, key := range keys {
		_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(t.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			failed[key] = err
			continue
		}
		deleted = append(deleted, key)
	}
	return deleted, failed
}
