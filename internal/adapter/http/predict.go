package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
	"github.com/couchcryptid/cme-arrival-service/internal/pipeline"
)

const maxRequestBytes = 64 << 10

// PredictionService is the subset of pipeline.Service the HTTP layer needs.
type PredictionService interface {
	sharedobs.ReadinessChecker
	Predict(ctx context.Context, req pipeline.Request) (domain.Prediction, error)
}

// predictRequest is the JSON body of POST /v1/predictions.
type predictRequest struct {
	Onset         string                 `json:"onset"`
	Event         domain.EventParameters `json:"event"`
	ActualArrival string                 `json:"actual_arrival,omitempty"`
}

func (r predictRequest) toRequest() (pipeline.Request, error) {
	if r.Onset == "" {
		return pipeline.Request{}, errors.New("onset is required")
	}
	onset, err := domain.ParseTimestamp(r.Onset)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("onset: %w", err)
	}
	if r.Event.Speed <= 0 {
		return pipeline.Request{}, errors.New("event.speed must be positive")
	}

	req := pipeline.Request{Onset: onset, Event: r.Event}
	if r.ActualArrival != "" {
		actual, err := domain.ParseTimestamp(r.ActualArrival)
		if err != nil {
			return pipeline.Request{}, fmt.Errorf("actual_arrival: %w", err)
		}
		req.ActualArrival = &actual
	}
	return req, nil
}

func handlePredict(svc PredictionService, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body predictRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
			return
		}

		req, err := body.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		start := time.Now()
		p, err := svc.Predict(r.Context(), req)
		switch {
		case errors.Is(err, pipeline.ErrNotReady):
			writeError(w, http.StatusServiceUnavailable, err)
		case errors.Is(err, domain.ErrInvalidPrediction):
			writeError(w, http.StatusUnprocessableEntity, err)
		case err != nil:
			logger.Error("prediction failed", "onset", body.Onset, "error", err)
			writeError(w, http.StatusInternalServerError, errors.New("prediction failed"))
		default:
			logger.Debug("prediction served", "id", p.ID, "duration", time.Since(start))
			sharedobs.WriteJSON(w, http.StatusOK, p)
		}
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
