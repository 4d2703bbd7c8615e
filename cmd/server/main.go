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

	"github.com/arencloud/eksapp/internal/api"
	"github.com/arencloud/eksapp/internal/config"
	"github.com/arencloud/eksapp/internal/logging"
	"github.com/arencloud/eksapp/internal/metrics"
	"github.com/arencloud/eksapp/internal/storage"
	"github.com/arencloud/eksapp/internal/version"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.String("name", version.Name),
		zap.String("version", version.Version),
		zap.String("env", cfg.Env))

	buckets, err := storage.New(context.Background(), cfg.S3)
	if err != nil {
		logger.Fatal("failed to init storage client", zap.Error(err))
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.NewCollector()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.Router(cfg, logger, buckets, collector),
		ReadHeaderTimeout: 15 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB headers
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
