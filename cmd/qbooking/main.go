package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"qbooking/internal/infra/config"
	ginserver "qbooking/internal/infra/http/gin"
	"qbooking/internal/infra/obs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dotenvErr := config.LoadDotEnv()
	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.Env)
	if dotenvErr != nil {
		logger.Warn("dotenv ignored", "error", dotenvErr)
	}
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg = config.Defaults()
		logger = obs.NewLogger(cfg.Env)
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.loadInventoryFixtures(ctx, fixturesPath(cfg), logger); err != nil {
		logger.Warn("inventory fixtures load failed", "error", err)
	}
	app.startBackground(ctx)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, app.health, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	app.wait()
	logger.Info("HTTP server stopped")
}
