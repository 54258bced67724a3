package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
)

const formatVersion = 1

// engineFile is the on-disk form of a trained engine: the scaler parameters,
// the regression coefficients, and the feature names they were fitted on.
type engineFile struct {
	Version   int                   `json:"version"`
	Features  domain.FeatureRequest `json:"features"`
	Mean      []float64             `json:"scaler_mean"`
	Scale     []float64             `json:"scaler_scale"`
	Weights   []float64             `json:"weights"`
	Intercept float64               `json:"intercept"`
	Samples   int                   `json:"samples"`
}

// Save writes e as JSON together with the feature names it was trained on.
func Save(w io.Writer, e *Engine, features domain.FeatureRequest) error {
	if len(features) != e.Dim() {
		return fmt.Errorf("save engine: %d feature names for %d weights", len(features), e.Dim())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(engineFile{
		Version:   formatVersion,
		Features:  features,
		Mean:      e.means,
		Scale:     e.scales,
		Weights:   e.weights,
		Intercept: e.intercept,
		Samples:   e.samples,
	})
}

// Load reads an engine written by Save and returns it with its feature names.
func Load(r io.Reader) (*Engine, domain.FeatureRequest, error) {
	var f engineFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, nil, fmt.Errorf("decode engine: %w", err)
	}
	if f.Version != formatVersion {
		return nil, nil, fmt.Errorf("decode engine: unsupported version %d", f.Version)
	}

	dim := len(f.Weights)
	if dim == 0 {
		return nil, nil, errors.New("decode engine: no weights")
	}
	if len(f.Mean) != dim || len(f.Scale) != dim || len(f.Features) != dim {
		return nil, nil, fmt.Errorf("decode engine: inconsistent lengths (features %d, mean %d, scale %d, weights %d)",
			len(f.Features), len(f.Mean), len(f.Scale), dim)
	}
	for j := range dim {
		if f.Scale[j] == 0 || !finite(f.Scale[j]) || !finite(f.Mean[j]) || !finite(f.Weights[j]) {
			return nil, nil, fmt.Errorf("decode engine: invalid parameters for feature %q", f.Features[j])
		}
	}
	if !finite(f.Intercept) {
		return nil, nil, errors.New("decode engine: invalid intercept")
	}

	return &Engine{
		means:     f.Mean,
		scales:    f.Scale,
		weights:   f.Weights,
		intercept: f.Intercept,
		samples:   f.Samples,
	}, f.Features, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
