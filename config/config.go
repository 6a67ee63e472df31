package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"4242"`
	LogMode  string `envconfig:"LOG_MODE" default:"production"`

	// Datenbank: "postgres" für den Betrieb, "sqlite" für lokale Entwicklung
	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"biomimic"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"biomimic.db"`

	APISecretKey  string        `envconfig:"API_SECRET_KEY"`
	AuthJWTSecret string        `envconfig:"AUTH_JWT_SECRET"`
	AuthTokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"720h"`
	CORSOrigins   string        `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	// LLM-Provider: openai, gemini oder mock
	LLMProvider   string        `envconfig:"LLM_PROVIDER" default:"openai"`
	LLMTimeout    time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string        `envconfig:"OPENAI_MODEL" default:"gpt-4.1-nano"`
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	CatalogPath  string `envconfig:"CATALOG_PATH"`
	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 3 * * *"`

	// Export-Ziel (S3-kompatibel). Ohne Bucket ist der Export deaktiviert.
	ExportS3URL    string `envconfig:"EXPORT_S3_URL"`
	ExportS3Region string `envconfig:"EXPORT_S3_REGION" default:"us-east-1"`
	ExportS3Key    string `envconfig:"EXPORT_S3_KEY"`
	ExportS3Secret string `envconfig:"EXPORT_S3_SECRET"`
	ExportS3Bucket string `envconfig:"EXPORT_S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// ExportEnabled meldet, ob ein S3-Ziel für Exporte konfiguriert ist.
func (c *Config) ExportEnabled() bool {
	return c.ExportS3Bucket != ""
}

// AllowedOrigins splits CORS_ORIGINS into a clean list.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load lädt die Konfiguration des Servers aus den Umgebungsvariablen.
func Load() (*Config, error) {
	return load(true)
}

// LoadForTools lädt die Konfiguration für Wartungswerkzeuge, die keine Tokens signieren.
// AUTH_JWT_SECRET ist dort optional.
func LoadForTools() (*Config, error) {
	return load(false)
}

func load(needAuth bool) (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if err := c.validate(needAuth); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate(needAuth bool) error {
	if needAuth && c.AuthJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET must not be empty")
	}
	switch c.DBDriver {
	case "postgres":
		if c.DBUser == "" {
			return fmt.Errorf("DB_USER is required for the postgres driver")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.LLMProvider {
	case "openai", "gemini", "mock":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}
