package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"biomimic/auth"
	"biomimic/config"
	"biomimic/providers"
	"biomimic/providers/gemini"
	"biomimic/providers/mock"
	"biomimic/providers/openai"
	"biomimic/services"
	"biomimic/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logging, err := newLogger(cfg.LogMode)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	// Setup Database
	db, err := storage.OpenDatabase(cfg, logging)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Running database auto-migration...")
	if err := storage.Migrate(db); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	ctx := context.Background()

	// Setup Provider
	provider, err := newProvider(ctx, cfg, logging)
	if err != nil {
		logging.Fatal("LLM provider setup failed", zap.Error(err))
	}
	logging.Info("Active LLM provider", zap.String("provider", provider.Name()))

	// Setup Services
	var uploader storage.Uploader
	target := exportTarget(cfg)
	if cfg.ExportEnabled() {
		s3Client, err := storage.NewS3Client(ctx, target)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		uploader = s3Client
	}
	srv := &server{
		cfg:          cfg,
		log:          logging,
		issuer:       auth.NewIssuer(cfg.AuthJWTSecret, cfg.AuthTokenTTL),
		problems:     services.NewProblemService(db, logging),
		solutions:    services.NewSolutionService(db, logging, provider),
		inspirations: services.NewInspirationService(db, logging, cfg.CatalogPath),
		chat:         services.NewChatService(db, logging, provider),
		export:       services.NewExportService(db, logging, uploader, target),
	}
	srv.users = services.NewUserService(db, logging, srv.issuer)

	// Seeding
	if _, err := srv.inspirations.Seed(ctx); err != nil {
		logging.Error("Seeding nature inspirations failed", zap.Error(err))
	}

	// Setup Cron
	if cfg.ExportEnabled() {
		cronScheduler := cron.New()
		_, err := cronScheduler.AddFunc(cfg.CronSchedule, func() {
			logging.Info("Running scheduled export snapshot...")
			key, err := srv.export.Snapshot(context.Background())
			if err != nil {
				logging.Error("Cron job failed", zap.Error(err))
				return
			}
			logging.Info("Cron job completed", zap.String("key", key))
		})
		if err != nil {
			logging.Fatal("Invalid CRON_SCHEDULE", zap.String("schedule", cfg.CronSchedule), zap.Error(err))
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	httpSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           newRouter(srv),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newProvider wählt den LLM-Provider anhand von LLM_PROVIDER.
func newProvider(ctx context.Context, cfg *config.Config, logging *zap.Logger) (providers.Provider, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		return openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.LLMTimeout, logging), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout, logging)
	case "mock":
		logging.Warn("Using mock LLM provider, AI answers are canned")
		return mock.New(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func exportTarget(cfg *config.Config) storage.S3Target {
	return storage.S3Target{
		URL:    cfg.ExportS3URL,
		Region: cfg.ExportS3Region,
		Key:    cfg.ExportS3Key,
		Secret: cfg.ExportS3Secret,
		Bucket: cfg.ExportS3Bucket,
	}
}
