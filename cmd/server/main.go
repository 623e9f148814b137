package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/config"
	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/core"
	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/logging"
	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/web"
	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/xlsx"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	service := core.NewService(cfg, xlsx.NewCodec())
	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let in-flight transformations finish before closing
		status := service.LimiterStatus()
		if status.Active > 0 {
			slog.Info("waiting for transformations to complete", "active", status.Active)
			if err := service.WaitForTransforms(shutdownCtx); err != nil {
				slog.Warn("transformations did not complete in time", "error", err)
			} else {
				slog.Info("all transformations completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
