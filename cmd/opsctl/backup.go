package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"biomimic/storage"
)

const backupPrefix = "backups/"

// BackupConfig liest die Backup-Parameter aus den Umgebungsvariablen.
type BackupConfig struct {
	PostgresHost     string `envconfig:"DB_HOST" required:"true"`
	PostgresPort     int    `envconfig:"DB_PORT" default:"5432"`
	PostgresUser     string `envconfig:"DB_USER" required:"true"`
	PostgresPassword string `envconfig:"DB_PASSWORD" required:"true"`
	PostgresDB       string `envconfig:"DB_NAME" default:"biomimic"`
	BackupBucket     string `envconfig:"BACKUP_S3_BUCKET" required:"true"`
	BackupEndpoint   string `envconfig:"BACKUP_S3_ENDPOINT"`
	BackupAccessKey  string `envconfig:"BACKUP_S3_ACCESS_KEY" required:"true"`
	BackupSecretKey  string `envconfig:"BACKUP_S3_SECRET_KEY" required:"true"`
	BackupRegion     string `envconfig:"BACKUP_S3_REGION" default:"us-east-1"`
	KeepBackups      int    `envconfig:"KEEP_BACKUPS" default:"4"`
}

func (c BackupConfig) target() storage.S3Target {
	return storage.S3Target{
		URL:    c.BackupEndpoint,
		Region: c.BackupRegion,
		Key:    c.BackupAccessKey,
		Secret: c.BackupSecretKey,
		Bucket: c.BackupBucket,
	}
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "pg_dump the database, gzip it, upload to S3 and rotate old backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging, err := newLogger()
			if err != nil {
				return err
			}
			defer logging.Sync()

			var cfg BackupConfig
			if err := envconfig.Process("", &cfg); err != nil {
				return fmt.Errorf("load backup config: %w", err)
			}
			ctx := cmd.Context()

			logging.Info("Starte Backup-Prozess...")
			dump, err := createDump(ctx, cfg)
			if err != nil {
				return fmt.Errorf("create dump: %w", err)
			}

			client, err := storage.NewS3Client(ctx, cfg.target())
			if err != nil {
				return fmt.Errorf("create s3 client: %w", err)
			}
			return runBackup(ctx, logging, client, cfg, dump, time.Now())
		},
	}
}

// runBackup lädt den Dump hoch und behält danach nur die KeepBackups neuesten Backups.
func runBackup(ctx context.Context, logging *zap.Logger, client storage.ObjectStore, cfg BackupConfig, dump []byte, now time.Time) error {
	t := cfg.target()
	key := backupKey(now)
	link, err := storage.UploadFile(ctx, client, t, key, dump, "application/gzip")
	if err != nil {
		return err
	}
	logging.Info("Backup hochgeladen", zap.String("link", link), zap.Int("bytes", len(dump)))

	objects, err := storage.ListKeys(ctx, client, t, backupPrefix)
	if err != nil {
		return fmt.Errorf("rotate backups: %w", err)
	}
	stale := storage.StaleKeys(objects, cfg.KeepBackups)
	if len(stale) == 0 {
		logging.Info("Keine Rotation nötig", zap.Int("backups", len(objects)), zap.Int("keep", cfg.KeepBackups))
		return nil
	}
	deleted, failed := storage.DeleteKeys(ctx, client, t, stale)
	for k, err := range failed {
		logging.Warn("Fehler beim Löschen eines alten Backups", zap.String("key", k), zap.Error(err))
	}
	logging.Info("Backup-Prozess erfolgreich abgeschlossen", zap.Strings("deleted", deleted))
	return nil
}

func backupKey(now time.Time) string {
	return fmt.Sprintf("%sbackup-%s.sql.gz", backupPrefix, now.UTC().Format("2006-01-02T15-04-05Z"))
}

func createDump(ctx context.Context, cfg BackupConfig) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "pg_dump",
		"-h", cfg.PostgresHost,
		"-p", fmt.Sprint(cfg.PostgresPort),
		"-U", cfg.PostgresUser,
		"-d", cfg.PostgresDB,
		"-w", // Passwort kommt über PGPASSWORD
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+cfg.PostgresPassword)
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := io.Copy(gz, stdout); err != nil {
		_ = cmd.Wait()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		_ = cmd.Wait()
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
