package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/cme-arrival-service/internal/adapter/http"
	"github.com/couchcryptid/cme-arrival-service/internal/adapter/catalog"
	kafkaadapter "github.com/couchcryptid/cme-arrival-service/internal/adapter/kafka"
	"github.com/couchcryptid/cme-arrival-service/internal/adapter/omniweb"
	"github.com/couchcryptid/cme-arrival-service/internal/config"
	"github.com/couchcryptid/cme-arrival-service/internal/observability"
	"github.com/couchcryptid/cme-arrival-service/internal/pipeline"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := omniweb.NewClient(cfg.OMNIBaseURL, cfg.OMNIFetchTimeout, cfg.OMNIRequestsPerSecond, metrics, logger)
	provider := omniweb.NewCachedProvider(client, cfg.OMNICacheSize, metrics)
	loader := catalog.NewLoader(cfg.OMNIFetchTimeout, metrics, logger)

	// Publishing is feature-flagged via KAFKA_BROKERS.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.PublishEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("prediction publishing enabled", "topic", cfg.KafkaPredictionTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("prediction publishing disabled")
	}

	svc := pipeline.New(provider, loader, publisher, pipeline.Options{
		FetchTimeout:   cfg.OMNIFetchTimeout,
		AveragingHours: cfg.AveragingHours,
		Features:       cfg.Features,
	}, logger, metrics)

	if cfg.EnginePath != "" {
		if err := loadEngine(svc, cfg.EnginePath); err != nil {
			logger.Warn("persisted engine not loaded", "path", cfg.EnginePath, "error", err)
		} else {
			logger.Info("persisted engine loaded", "path", cfg.EnginePath)
		}
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Train in the background; /readyz reports 503 until an engine is loaded.
	if cfg.CatalogSource != "" {
		go func() {
			if err := svc.Train(ctx, cfg.CatalogSource); err != nil {
				logger.Error("training failed", "source", cfg.CatalogSource, "error", err)
				return
			}
			if cfg.EnginePath == "" {
				return
			}
			if err := saveEngine(svc, cfg.EnginePath); err != nil {
				logger.Error("failed to persist engine", "path", cfg.EnginePath, "error", err)
			}
		}()
	} else if cfg.EnginePath == "" {
		logger.Warn("neither CME_CATALOG_SOURCE nor ENGINE_PATH set, service will not become ready")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func loadEngine(svc *pipeline.Service, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return svc.LoadEngine(f)
}

// saveEngine writes to a temporary file first so a crash never leaves a
// truncated engine behind.
func saveEngine(svc *pipeline.Service, path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := svc.SaveEngine(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
