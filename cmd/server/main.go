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

	"github.com/prometheus/client_golang/prometheus"

	"chartgo/internal/delivery"
	"chartgo/internal/engine"
	"chartgo/internal/infrastructure"
	"chartgo/internal/usecase"
	"chartgo/pkg/config"
	"chartgo/pkg/logger"
	"chartgo/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("Starting server")

	m := metrics.New(prometheus.DefaultRegisterer)

	eng := engine.New(engine.Options{
		MaxHeaderScan: cfg.Engine.HeaderScanRows,
		Budget: engine.BudgetPolicy{
			Ceiling:                cfg.Engine.BudgetCeiling,
			DecimalPreferenceBelow: cfg.Engine.DecimalPreferenceBelow,
		},
	})

	shellRepo := infrastructure.NewShellRepository(log)
	sheetReader := infrastructure.NewSheetReader(log)
	sinkClient := infrastructure.NewSinkClient(
		cfg.Export.SinkURL,
		cfg.Export.SinkSecret,
		cfg.Export.Timeout,
		cfg.Export.RateLimitPerSecond,
		log,
		m,
	)
	if cfg.Export.SinkURL == "" {
		log.Warn("SINK_URL is not set; export runs will be rejected")
	}

	importService := usecase.NewImportService(eng, sheetReader, log, m, cfg.Import.WorkerPoolSize)
	shellService := usecase.NewShellService(shellRepo, sinkClient, log, m)

	handlers := delivery.NewHTTPHandlers(importService, shellService, log)
	router := delivery.NewHTTPRouter(handlers, log, m, delivery.RouterOptions{
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxUploadBytes: cfg.Import.MaxUploadBytes,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info("Server stopped")
}
