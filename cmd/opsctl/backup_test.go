package main

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore hält Objekte im Speicher und implementiert storage.ObjectStore.
type memStore struct {
	objects map[string]time.Time
	clock   time.Time
}

func (m *memStore) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.objects[aws.ToString(in.Key)] = m.clock
	return &s3.PutObjectOutput{}, nil
}

func (m *memStore) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	for k, ts := range m.objects {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k), LastModified: aws.Time(ts)})
	}
	return out, nil
}

func (m *memStore) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(m.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestRunBackupRotatesOldBackups(t *testing.T) {
	base := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	store := &memStore{objects: map[string]time.Time{}}
	for i := range 4 {
		ts := base.AddDate(0, 0, i)
		store.objects[backupKey(ts)] = ts
	}

	now := base.AddDate(0, 0, 4)
	store.clock = now
	cfg := BackupConfig{BackupBucket: "backups", KeepBackups: 4}
	require.NoError(t, runBackup(context.Background(), zap.NewNop(), store, cfg, []byte("dump"), now))

	assert.Len(t, store.objects, 4)
	assert.Contains(t, store.objects, backupKey(now))
	assert.NotContains(t, store.objects, backupKey(base), "oldest backup is rotated out")
}

func TestBackupKey(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "backups/backup-2026-01-02T02-04-05Z.sql.gz", backupKey(ts))
}
