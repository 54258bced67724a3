// Command predict runs one arrival-time prediction for the 2015-12-28 halo CME
// and prints the result as JSON. The engine is either trained from a catalog
// or loaded from a file written by a previous run.
//
// Usage:
//
//	go run ./cmd/predict -catalog data/catalog.txt -save data/engine.json
//	go run ./cmd/predict -engine data/engine.json
//
// The solar-wind archive and feature profile come from the same environment
// variables as the service (OMNI_BASE_URL, FEATURE_PROFILE, ...).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/cme-arrival-service/internal/adapter/catalog"
	"github.com/couchcryptid/cme-arrival-service/internal/adapter/omniweb"
	"github.com/couchcryptid/cme-arrival-service/internal/config"
	"github.com/couchcryptid/cme-arrival-service/internal/domain"
	"github.com/couchcryptid/cme-arrival-service/internal/observability"
	"github.com/couchcryptid/cme-arrival-service/internal/pipeline"
)

// exampleOnset is the first C2 appearance of the 2015-12-28 halo CME.
var exampleOnset = time.Date(2015, time.December, 28, 12, 12, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	catalogSrc := flag.String("catalog", "", "catalog file or URL to train the engine from")
	enginePath := flag.String("engine", "", "persisted engine to load instead of training")
	savePath := flag.String("save", "", "write the trained engine to this path")
	flag.Parse()

	if (*catalogSrc == "") == (*enginePath == "") {
		flag.Usage()
		return errors.New("exactly one of -catalog or -engine is required")
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to read .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := omniweb.NewClient(cfg.OMNIBaseURL, cfg.OMNIFetchTimeout, cfg.OMNIRequestsPerSecond, metrics, logger)
	provider := omniweb.NewCachedProvider(client, cfg.OMNICacheSize, metrics)
	loader := catalog.NewLoader(cfg.OMNIFetchTimeout, metrics, logger)

	svc := pipeline.New(provider, loader, nil, pipeline.Options{
		FetchTimeout:   cfg.OMNIFetchTimeout,
		AveragingHours: cfg.AveragingHours,
		Features:       cfg.Features,
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *enginePath != "" {
		if err := loadEngine(svc, *enginePath); err != nil {
			return fmt.Errorf("load engine %s: %w", *enginePath, err)
		}
	} else {
		if err := svc.Train(ctx, *catalogSrc); err != nil {
			return fmt.Errorf("train: %w", err)
		}
		if *savePath != "" {
			if err := saveEngine(svc, *savePath); err != nil {
				return fmt.Errorf("save engine %s: %w", *savePath, err)
			}
			log.Printf("engine written to %s", *savePath)
		}
	}

	p, err := svc.Predict(ctx, exampleRequest())
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// exampleRequest is the LASCO entry for the 2015-12-28 halo CME together with
// the ICME arrival observed at L1.
func exampleRequest() pipeline.Request {
	actual := time.Date(2015, time.December, 31, 0, 0, 0, 0, time.UTC)
	return pipeline.Request{
		Onset: exampleOnset,
		Event: domain.EventParameters{
			Speed:         1212,
			FinalSpeed:    1180,
			Width:         360,
			Mass:          1.4e16,
			PositionAngle: 360,
		},
		ActualArrival: &actual,
	}
}

func loadEngine(svc *pipeline.Service, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return svc.LoadEngine(f)
}

func saveEngine(svc *pipeline.Service, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := svc.SaveEngine(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
