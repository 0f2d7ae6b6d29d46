package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("SUMMARY_CRON_SCHEDULE", "")
	t.Setenv("STRICT_STOCK", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Storage.Driver)
	}
	if cfg.Reporting.SummaryCron != "0 20 * * *" {
		t.Errorf("cron = %q", cfg.Reporting.SummaryCron)
	}
	if cfg.Engine.StrictStock {
		t.Error("strict stock must default to off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("STRICT_STOCK", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://b.test" {
		t.Errorf("cors origins = %v", cfg.Server.CORSOrigins)
	}
	if !cfg.Engine.StrictStock {
		t.Error("strict stock not enabled")
	}
}

func TestValidateRejectsBadStorage(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "cassandra")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "STORAGE_DRIVER") {
		t.Errorf("expected unknown driver error, got %v", err)
	}

	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("MONGODB_URI", "")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "MONGODB_URI") {
		t.Errorf("expected missing mongo uri error, got %v", err)
	}

	t.Setenv("STORAGE_DRIVER", "mysql")
	t.Setenv("STORAGE_DSN", "")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "STORAGE_DSN") {
		t.Errorf("expected missing dsn error, got %v", err)
	}
}
