package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/collegefest/festadmin/internal/auth"
	"github.com/collegefest/festadmin/internal/config"
	"github.com/collegefest/festadmin/internal/db"
	"github.com/collegefest/festadmin/internal/logging"
	"github.com/collegefest/festadmin/internal/service"
	"github.com/collegefest/festadmin/internal/session"
	"github.com/collegefest/festadmin/internal/store"
	"github.com/collegefest/festadmin/internal/web"
	"github.com/collegefest/festadmin/internal/web/templates"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:   "festadmin",
		Usage:  "college fest club and event administration",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the admin web server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrate(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	version, err := db.Migrate(cfg.DBPath)
	if err != nil {
		return err
	}
	fmt.Printf("database %s at schema version %d\n", cfg.DBPath, version)
	return nil
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	sessions, closeSessions, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize session store", "error", err)
		return err
	}
	defer closeSessions()

	authn, err := auth.NewAuthenticator(cfg.AdminUsername, cfg.AdminPassword, logger)
	if err != nil {
		logger.Error("failed to initialize authenticator", "error", err)
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	festService := service.NewFestService(store.NewClubStore(database), store.NewEventStore(database), logger)
	server := web.NewServer(festService, authn, sessions, templates.FS, web.Options{
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.SecureCookies,
		Registry:      registry,
	}, logger)

	srv := server.HTTPServer(cfg.ListenAddr)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ListenAddr, "session_backend", cfg.SessionBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		return err
	}
	return nil
}

func newSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case "redis":
		client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
		return session.NewRedisStore(client, cfg.SessionTTL), func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}, nil
	default:
		logger.Info("using in-memory session store")
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}
}
