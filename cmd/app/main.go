package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/catalog-admin-backend/internal/config"
	"github.com/wichananm65/catalog-admin-backend/internal/database"
	"github.com/wichananm65/catalog-admin-backend/internal/logger"
	"github.com/wichananm65/catalog-admin-backend/internal/media"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-admin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:         cfg.Logger.Level,
		Encoding:      cfg.Logger.Encoding,
		IsDevelopment: cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Config{
		URL:             cfg.Postgres.URL,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	store, err := newStore(cfg.Media)
	if err != nil {
		return err
	}
	janitor := media.NewJanitor(store, media.NewPostgresOrphanLog(db), log)

	svc := postgresServices(db, janitor, cfg, log)
	app := newApp(cfg, log, svc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.Server.Addr), zap.String("media_driver", cfg.Media.Driver))
		return app.Listen(cfg.Server.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
		return app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}

func newStore(cfg config.MediaConfig) (media.Store, error) {
	if cfg.Driver == "local" {
		s, err := media.NewLocalStore(cfg.LocalDir, cfg.PublicBase)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := media.NewCloudinaryStore(cfg.CloudinaryURL)
	if err != nil {
		return nil, err
	}
	return s, nil
}
