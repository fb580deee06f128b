package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"streamly/internal/auth"
	"streamly/internal/catalog"
	"streamly/internal/config"
	"streamly/internal/engagement"
	"streamly/internal/events"
	"streamly/internal/httpapi"
	"streamly/internal/logging"
	"streamly/internal/playlist"
	"streamly/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Migrate the schema and run the HTTP API",
		Action: serve,
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Apply the database schema and exit",
		Action: migrate,
	}
}

func setup(cmd *cli.Command) (config.Config, *log.Logger, error) {
	if err := config.LoadEnv(cmd.StringSlice("env-file")...); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logging.New(os.Stderr, cfg.LogLevel), nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	pool, err := storage.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := storage.AutoMigrate(ctx, pool); err != nil {
		return err
	}
	logger.Info("schema up to date")
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := storage.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := storage.AutoMigrate(ctx, pool); err != nil {
		return err
	}
	store := storage.NewPostgres(pool)

	var pub events.Publisher = events.Nop{}
	if cfg.RedisURL != "" {
		rdb, err := events.Connect(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, events will be dropped", "err", err)
		}
		pub = events.NewRedisPublisher(rdb, logger)
	}

	sessions := auth.NewSessions([]byte(cfg.JWTSecret), cfg.SessionTTL, store)
	srv := httpapi.NewServer(
		auth.NewCredentials(store, sessions, logger),
		sessions,
		catalog.NewService(store, pub, logger),
		playlist.NewService(store, pub, logger),
		engagement.NewTracker(store, logger),
		logger,
		httpapi.Options{
			CORSAllowedOrigin: cfg.CORSAllowedOrigin,
			AuthRateLimitRPS:  cfg.AuthRateLimitRPS,
			MaxBodyBytes:      cfg.MaxBodyBytes,
		},
	)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("streamly listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
