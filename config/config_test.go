package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_URL", "./blog.db")
	t.Setenv("SECRET_KEY", "s3cret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != ProEnv || cfg.IsDev() {
		t.Errorf("env = %q", cfg.Env)
	}
	if cfg.Address != "" {
		t.Errorf("pro has no default address, got %q", cfg.Address)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.URL != "./blog.db" {
		t.Errorf("db = %+v", cfg.DB)
	}
	if cfg.SessionTTL != 168*time.Hour {
		t.Errorf("session ttl = %s", cfg.SessionTTL)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != 587 {
		t.Errorf("smtp = %+v", cfg.SMTP)
	}
	if cfg.TLS.CacheDir != "/var/www/.cache" {
		t.Errorf("tls = %+v", cfg.TLS)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_URL", "postgres://blog@localhost/blog")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SMTP_USERNAME", "owner@x.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("TLS_WHITELIST_HOST", "blog.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsDev() || cfg.Address != ":8080" {
		t.Errorf("dev defaults not applied: %+v", cfg)
	}
	if cfg.Secret != "unsecure" {
		t.Errorf("dev secret = %q", cfg.Secret)
	}
	if cfg.DB.Driver != "postgres" || cfg.SessionTTL != 2*time.Hour {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SMTP.Port != 2525 || cfg.SMTP.To != "owner@x.com" {
		t.Errorf("smtp = %+v", cfg.SMTP)
	}
	if cfg.TLS.WhitelistHost != "blog.example.com" {
		t.Errorf("tls = %+v", cfg.TLS)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "env: dev\naddress_listen: \":9000\"\ndb:\n  url: ./file.db\nsmtp:\n  to: inbox@x.com\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SECRET_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Address != ":9000" || cfg.DB.URL != "./file.db" || cfg.SMTP.To != "inbox@x.com" || cfg.Secret != "from-env" {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("missing config file accepted")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "x")
		t.Setenv("DB_URL", "")
		if _, err := Load(""); !errors.Is(err, ErrMissingDatabaseURL) {
			t.Fatalf("got %v", err)
		}
	})
	t.Run("missing secret in pro", func(t *testing.T) {
		t.Setenv("DB_URL", "./blog.db")
		t.Setenv("SECRET_KEY", "")
		if _, err := Load(""); !errors.Is(err, ErrMissingSecret) {
			t.Fatalf("got %v", err)
		}
	})
	t.Run("unknown env", func(t *testing.T) {
		t.Setenv("DB_URL", "./blog.db")
		t.Setenv("ENV", "staging")
		if _, err := Load(""); err == nil {
			t.Fatalf("unknown env accepted")
		}
	})
	t.Run("negative ttl", func(t *testing.T) {
		t.Setenv("DB_URL", "./blog.db")
		t.Setenv("SECRET_KEY", "x")
		t.Setenv("SESSION_TTL", "-1h")
		if _, err := Load(""); err == nil {
			t.Fatalf("negative ttl accepted")
		}
	})
}

func TestLoadDBNeedsNoSecret(t *testing.T) {
	t.Setenv("DB_URL", "./blog.db")
	t.Setenv("SECRET_KEY", "")

	db, err := LoadDB("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if db.Driver != "sqlite" || db.URL != "./blog.db" {
		t.Fatalf("db = %+v", db)
	}

	t.Setenv("DB_URL", "")
	if _, err := LoadDB(""); !errors.Is(err, ErrMissingDatabaseURL) {
		t.Fatalf("got %v", err)
	}
}
