package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"biomimic/config"
	"biomimic/models"
)

type fakeUploader struct {
	key  string
	body []byte
	ct   string
	err  error
}

func (f *fakeUploader) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = *in.Key
	f.ct = *in.ContentType
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestUploadFileLink(t *testing.T) {
	up := &fakeUploader{}
	target := S3Target{URL: "https://s3.example.com/", Bucket: "exports"}

	link, err := UploadFile(context.Background(), up, target, "a/b.xlsx", []byte("data"), "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/exports/a/b.xlsx", link)
	assert.Equal(t, "a/b.xlsx", up.key)
	assert.Equal(t, []byte("data"), up.body)

	link, err = UploadFile(context.Background(), up, S3Target{Bucket: "exports"}, "k", nil, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "s3://exports/k", link)
}

func TestUploadFileError(t *testing.T) {
	up := &fakeUploader{err: errors.New("boom")}
	_, err := UploadFile(context.Background(), up, S3Target{Bucket: "b"}, "k", nil, "text/plain")
	require.ErrorContains(t, err, "s3://b/k")
}

func TestOpenDatabaseSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: ":memory:"}
	db, err := OpenDatabase(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, m := range []any{&models.Problem{}, &models.Solution{}, &models.Like{}, &models.ChatMessage{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestOpenDatabaseUnknownDriver(t *testing.T) {
	_, err := OpenDatabase(&config.Config{DBDriver: "oracle"}, zap.NewNop())
	require.Error(t, err)
}
