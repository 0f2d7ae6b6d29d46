package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Engine    EngineConfig
	Reporting ReportingConfig
	Notify    NotifyConfig
	AI        AIConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Driver      string // sqlite | mysql | mongo | memory
	DSN         string // sqlite file path or mysql DSN
	MongoURI    string
	MongoDBName string
}

// EngineConfig holds sale engine options.
type EngineConfig struct {
	StrictStock bool
}

// ReportingConfig holds the daily summary schedule.
type ReportingConfig struct {
	SummaryCron string
}

// NotifyConfig configures the optional outbound webhook.
type NotifyConfig struct {
	WebhookURL string
}

// AIConfig holds settings for the assistant.
type AIConfig struct {
	GeminiKey string
}

// Load reads environment variables (optionally from the provided file)
// and materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes
		// from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getenvWithDefault("APP_PORT", "8080"),
			CORSOrigins: splitList(getenvWithDefault("CORS_ORIGINS", "http://localhost:5173")),
		},
		Storage: StorageConfig{
			Driver:      getenvWithDefault("STORAGE_DRIVER", "sqlite"),
			DSN:         os.Getenv("STORAGE_DSN"),
			MongoURI:    os.Getenv("MONGODB_URI"),
			MongoDBName: getenvWithDefault("MONGODB_DB_NAME", "boutique"),
		},
		Engine: EngineConfig{
			StrictStock: os.Getenv("STRICT_STOCK") == "true",
		},
		Reporting: ReportingConfig{
			SummaryCron: getenvWithDefault("SUMMARY_CRON_SCHEDULE", "0 20 * * *"),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
		AI: AIConfig{
			GeminiKey: os.Getenv("GEMINI_API_KEY"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	switch c.Storage.Driver {
	case "sqlite", "mysql", "memory":
	case "mongo":
		if c.Storage.MongoURI == "" {
			return errors.New("MONGODB_URI must be provided for the mongo storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "mysql" && c.Storage.DSN == "" {
		return errors.New("STORAGE_DSN must be provided for the mysql storage driver")
	}
	if c.Reporting.SummaryCron == "" {
		return errors.New("SUMMARY_CRON_SCHEDULE must not be empty")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
