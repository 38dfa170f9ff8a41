package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/accident-map/internal/adapter/http"
	"github.com/couchcryptid/accident-map/internal/config"
	"github.com/couchcryptid/accident-map/internal/loader"
	"github.com/couchcryptid/accident-map/internal/observability"
	"github.com/couchcryptid/accident-map/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ld := loader.New(cfg.LoadTimeout, logger)
	src := loader.Sources{Accidents: cfg.AccidentsSource, States: cfg.StatesSource}
	p := pipeline.New(ld, src, cfg.DefaultState, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial load. Either resource failing aborts startup; there is no
	// partial render and no retry.
	loadCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	err = p.Refresh(loadCtx)
	cancel()
	if err != nil {
		logger.Error("dataset load failed", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if cfg.Watch {
		go func() {
			if err := p.Watch(ctx); err != nil {
				logger.Error("watch error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
