package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
	"github.com/couchcryptid/cme-arrival-service/internal/model"
	"github.com/couchcryptid/cme-arrival-service/internal/observability"
)

// ErrNotReady is returned before any engine has been trained.
var ErrNotReady = errors.New("no trained engine loaded")

// CatalogLoader reads training samples from a catalog source.
type CatalogLoader interface {
	Load(ctx context.Context, source string) (*domain.Catalog, error)
}

// Publisher forwards finished predictions to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, p domain.Prediction) error
}

// Options tunes the prediction path.
type Options struct {
	FetchTimeout   time.Duration
	AveragingHours int
	Features       domain.FeatureRequest
	Ridge          float64
}

// Request describes one event to predict.
type Request struct {
	Onset         time.Time
	Event         domain.EventParameters
	ActualArrival *time.Time
}

type loadedPredictor struct {
	predictor domain.Predictor
	engine    *model.Engine // nil for predictors installed with UsePredictor
}

// Service wires the solar-wind snapshot, feature vector, predictor, and
// arrival calculation into a single prediction call.
type Service struct {
	provider  domain.SeriesProvider
	catalog   CatalogLoader
	publisher Publisher
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics
	current   atomic.Pointer[loadedPredictor]
}

// New creates a Service. catalog and publisher may be nil.
func New(provider domain.SeriesProvider, catalog CatalogLoader, publisher Publisher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if len(opts.Features) == 0 {
		opts.Features = domain.DefaultFeatureRequest
	}
	if opts.AveragingHours <= 0 {
		opts.AveragingHours = domain.DefaultAveragingHours
	}
	return &Service{
		provider:  provider,
		catalog:   catalog,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
	}
}

// Features returns the feature request the service vectorises events with.
func (s *Service) Features() domain.FeatureRequest {
	return s.opts.Features
}

// UsePredictor installs p as the active predictor. Predictions in flight keep the previous one.
func (s *Service) UsePredictor(p domain.Predictor, samples int) {
	s.current.Store(&loadedPredictor{predictor: p})
	s.metrics.ModelReady.Set(1)
	s.metrics.TrainingSamples.Set(float64(samples))
}

func (s *Service) useEngine(e *model.Engine) {
	s.current.Store(&loadedPredictor{predictor: e, engine: e})
	s.metrics.ModelReady.Set(1)
	s.metrics.TrainingSamples.Set(float64(e.Samples()))
}

// LoadEngine installs a persisted engine. Its feature names must match the
// service's feature request exactly, in order.
func (s *Service) LoadEngine(r io.Reader) error {
	engine, features, err := model.Load(r)
	if err != nil {
		return err
	}
	if !slices.Equal(features, s.opts.Features) {
		return fmt.Errorf("engine features %v do not match configured features %v", features, s.opts.Features)
	}
	s.useEngine(engine)
	s.logger.Info("engine loaded", "samples", engine.Samples(), "features", len(features))
	return nil
}

// SaveEngine writes the active trained engine to w.
func (s *Service) SaveEngine(w io.Writer) error {
	loaded := s.current.Load()
	if loaded == nil {
		return ErrNotReady
	}
	if loaded.engine == nil {
		return errors.New("active predictor is not a trained engine")
	}
	return model.Save(w, loaded.engine, s.opts.Features)
}

// CheckReadiness returns nil once a predictor is loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.current.Load() == nil {
		return ErrNotReady
	}
	return nil
}

// Predict computes the arrival of one event. Solar-wind data problems degrade
// the snapshot and never fail the call. A non-finite or non-positive transit
// returns domain.ErrInvalidPrediction.
func (s *Service) Predict(ctx context.Context, req Request) (domain.Prediction, error) {
	loaded := s.current.Load()
	if loaded == nil {
		return domain.Prediction{}, ErrNotReady
	}

	start := time.Now()
	defer func() {
		s.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	}()

	snap := s.snapshot(req.Onset, s.table(ctx, req.Onset.Year()))
	vec := domain.BuildFeatureVector(s.opts.Features, req.Event, snap)

	transit, err := loaded.predictor.Predict(vec)
	if err != nil {
		s.metrics.Predictions.WithLabelValues("error").Inc()
		return domain.Prediction{}, fmt.Errorf("predict transit: %w", err)
	}

	arrival, err := domain.ComputeArrival(req.Onset, transit, req.ActualArrival)
	if err != nil {
		s.metrics.Predictions.WithLabelValues("invalid").Inc()
		s.logger.Warn("predictor returned invalid transit", "onset", domain.FormatTimestamp(req.Onset), "transit_hours", transit)
		return domain.Prediction{}, err
	}

	p := domain.NewPrediction(req.Event, s.opts.Features, vec, snap, arrival)
	s.metrics.Predictions.WithLabelValues("success").Inc()
	s.logger.Info("arrival predicted",
		"id", p.ID,
		"onset", p.Onset,
		"arrival", p.Arrival,
		"transit_hours", p.TransitHours,
		"degraded", p.Degraded,
	)

	s.publish(ctx, p)
	return p, nil
}

// publish forwards p when a publisher is configured. Failures are logged only.
func (s *Service) publish(ctx context.Context, p domain.Prediction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, p); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish prediction failed", "id", p.ID, "error", err)
	}
}

// Train loads the catalog at source, fits a new engine, and swaps it in.
// The previous engine stays active if training fails.
func (s *Service) Train(ctx context.Context, source string) error {
	if s.catalog == nil {
		return errors.New("no catalog loader configured")
	}
	cat, err := s.catalog.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	return s.TrainSamples(ctx, cat.Samples)
}

// TrainSamples fits a new engine from samples and swaps it in.
func (s *Service) TrainSamples(ctx context.Context, samples []domain.TrainingSample) error {
	if len(samples) == 0 {
		return domain.ErrEmptyTrainingSet
	}

	x, y := s.trainingSet(ctx, samples)
	engine, err := model.Train(x, y, model.WithRidge(s.opts.Ridge))
	if err != nil {
		return fmt.Errorf("train engine: %w", err)
	}

	s.useEngine(engine)
	s.logger.Info("engine trained", "samples", engine.Samples(), "features", len(s.opts.Features))
	return nil
}
