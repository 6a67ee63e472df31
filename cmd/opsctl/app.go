package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"biomimic/config"
	"biomimic/services"
	"biomimic/storage"
)

// openApp lädt Konfiguration und Datenbank wie der Server.
func openApp() (*config.Config, *gorm.DB, *zap.Logger, error) {
	cfg, err := config.LoadForTools()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logging, err := newLogger()
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := storage.OpenDatabase(cfg, logging)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := storage.Migrate(db); err != nil {
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return cfg, db, logging, nil
}

func seedCmd() *cobra.Command {
	var catalog string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the nature inspiration catalog if it is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, logging, err := openApp()
			if err != nil {
				return err
			}
			defer logging.Sync()
			if catalog == "" {
				catalog = cfg.CatalogPath
			}
			n, err := services.NewInspirationService(db, logging, catalog).Seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d inspirations\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&catalog, "catalog", "", "YAML catalog file (defaults to CATALOG_PATH or the built-in catalog)")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload a workbook snapshot to the export bucket, or write it to --out",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, logging, err := openApp()
			if err != nil {
				return err
			}
			defer logging.Sync()
			return runExport(cmd.Context(), cmd, cfg, db, logging, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the workbook to this file instead of uploading")
	return cmd
}

func runExport(ctx context.Context, cmd *cobra.Command, cfg *config.Config, db *gorm.DB, logging *zap.Logger, out string) error {
	target := storage.S3Target{
		URL:    cfg.ExportS3URL,
		Region: cfg.ExportS3Region,
		Key:    cfg.ExportS3Key,
		Secret: cfg.ExportS3Secret,
		Bucket: cfg.ExportS3Bucket,
	}

	if out != "" {
		data, err := services.NewExportService(db, logging, nil, target).Workbook(ctx)
		if err != nil {
			return err
		}
		if err := writeFile(out, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
		return nil
	}

	if !cfg.ExportEnabled() {
		return fmt.Errorf("EXPORT_S3_BUCKET is not set; use --out to write a local file")
	}
	client, err := storage.NewS3Client(ctx, target)
	if err != nil {
		return err
	}
	key, err := services.NewExportService(db, logging, client, target).Snapshot(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "uploaded s3://%s/%s\n", target.Bucket, key)
	return nil
}
