package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/acme/autocert"

	"agora/auth"
	"agora/config"
	"agora/handler"
	"agora/logger"
	"agora/mail"
	"agora/metrics"
	"agora/repository/sqlstore"
	"agora/sanitize"
	"agora/service"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		l := logger.New(config.ProEnv, os.Stderr)
		l.Fatal().Err(err).Msg("loading configuration")
	}
	log := logger.New(cfg.Env, os.Stdout)

	log.Info().Str("driver", cfg.DB.Driver).Msg("Running database schema migrations...")
	store, err := setupDB(cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Error during database schema migration")
	}
	defer store.Close()

	repos := store.Repositories()
	sanitizer := sanitize.New()
	h := &handler.Handler{
		Blog:        service.New(repos, auth.NewHasher(0), sanitizer, log),
		Sessions:    auth.NewSessions(cfg.Secret, cfg.SessionTTL, !cfg.IsDev(), repos.Users),
		Sanitizer:   sanitizer,
		Mailer:      mailer(cfg, log),
		Metrics:     metrics.New(),
		DB:          store,
		Log:         log,
		Environment: cfg.Env,
	}

	e, err := handler.NewServer(h)
	if err != nil {
		log.Fatal().Err(err).Msg("building server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		var err error
		if cfg.Address != "" {
			log.Info().Str("address", cfg.Address).Msg("listening")
			err = e.Start(cfg.Address)
		} else {
			// Cache certificates to avoid issues with rate limits (https://letsencrypt.org/docs/rate-limits)
			e.AutoTLSManager.Cache = autocert.DirCache(cfg.TLS.CacheDir)
			if onlyHost := cfg.TLS.WhitelistHost; onlyHost != "" {
				e.AutoTLSManager.HostPolicy = autocert.HostWhitelist(onlyHost)
			}
			e.Pre(middleware.HTTPSRedirect())
			log.Info().Msg("listening on :443 with automatic TLS")
			err = e.StartAutoTLS(":443")
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func setupDB(cfg config.DB, log zerolog.Logger) (*sqlstore.Store, error) {
	store, err := sqlstore.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, err
	}
	err = store.Migrate()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("No database schema migration ran. Database schema already in latest version")
		return store, nil
	}
	if err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func mailer(cfg config.Config, log zerolog.Logger) mail.Sender {
	if cfg.SMTP.Username == "" {
		if !cfg.IsDev() {
			log.Warn().Msg("no SMTP account configured: contact messages will only be logged")
		}
		return mail.LogSender{Log: log}
	}
	return mail.NewSMTP(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		To:       cfg.SMTP.To,
	})
}
