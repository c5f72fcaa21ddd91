package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DevEnv = "dev"
	ProEnv = "pro"
)

var (
	ErrMissingDatabaseURL = errors.New("no database URL defined (DB_URL)")
	ErrMissingSecret      = errors.New("no secret defined (SECRET_KEY)")
)

type DB struct {
	Driver string
	URL    string
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	To       string
}

type TLS struct {
	WhitelistHost string
	CacheDir      string
}

type Config struct {
	Env        string
	Address    string
	DB         DB
	Secret     string
	SessionTTL time.Duration
	SMTP       SMTP
	TLS        TLS
}

func (c Config) IsDev() bool { return c.Env == DevEnv }

// Load reads the configuration from the environment, optionally layered over
// the YAML file at path. Nested keys map to environment variables with dots
// replaced by underscores, so db.url is read from DB_URL.
func Load(path string) (Config, error) {
	v, err := load(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Env:     v.GetString("env"),
		Address: v.GetString("address_listen"),
		DB: DB{
			Driver: v.GetString("db.driver"),
			URL:    v.GetString("db.url"),
		},
		Secret:     v.GetString("secret_key"),
		SessionTTL: v.GetDuration("session_ttl"),
		SMTP: SMTP{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
			To:       v.GetString("smtp.to"),
		},
		TLS: TLS{
			WhitelistHost: v.GetString("tls.whitelist_host"),
			CacheDir:      v.GetString("tls.cache_dir"),
		},
	}

	if cfg.Env != DevEnv && cfg.Env != ProEnv {
		return Config{}, fmt.Errorf("unknown environment %q", cfg.Env)
	}
	if cfg.DB.URL == "" {
		return Config{}, ErrMissingDatabaseURL
	}
	if cfg.Secret == "" && cfg.IsDev() {
		cfg.Secret = "unsecure"
	}
	if cfg.Secret == "" {
		return Config{}, ErrMissingSecret
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("session_ttl must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.Address == "" && cfg.IsDev() {
		cfg.Address = ":8080"
	}
	if cfg.SMTP.To == "" {
		cfg.SMTP.To = cfg.SMTP.Username
	}
	return cfg, nil
}

// LoadDB reads only the database settings. Tools that never serve HTTP use
// it so they do not need a signing secret.
func LoadDB(path string) (DB, error) {
	v, err := load(path)
	if err != nil {
		return DB{}, err
	}
	db := DB{Driver: v.GetString("db.driver"), URL: v.GetString("db.url")}
	if db.URL == "" {
		return DB{}, ErrMissingDatabaseURL
	}
	return db, nil
}

func load(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", ProEnv)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("session_ttl", 7*24*time.Hour)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("tls.cache_dir", "/var/www/.cache")

	// AutomaticEnv only answers for keys viper already knows about.
	for _, key := range []string{"address_listen", "db.url", "secret_key", "smtp.username", "smtp.password", "smtp.to", "tls.whitelist_host"} {
		_ = v.BindEnv(key)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}
