package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/equipe-service/internal/app"
	"github.com/riskibarqy/equipe-service/internal/config"
	"github.com/riskibarqy/equipe-service/internal/observability"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	telemetry, err := observability.Start(cfg, logging.NewJSON(cfg.LogLevel))
	if err != nil {
		panic(err)
	}
	logger := telemetry.Logger().With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)

	srv, closeBackend, err := app.NewHTTPServer(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "data_backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exitCode := 0
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}
	if err := closeBackend(); err != nil {
		logger.Error("close data backend failed", "error", err)
	}
	logger.Info("http server stopped")
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		exitCode = 1
	}
	os.Exit(exitCode)
}
