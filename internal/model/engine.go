// Package model trains and evaluates the transit-time engine: a standard
// scaler followed by a ridge-regularised linear regression.
package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
)

// DefaultRidge is the L2 penalty applied to the scaled weights. The intercept is never penalised.
const DefaultRidge = 1.0

// Option configures training.
type Option func(*options)

type options struct {
	ridge float64
}

// WithRidge sets the L2 penalty. Values <= 0 fall back to DefaultRidge so the
// normal equations stay solvable when a feature is constant.
func WithRidge(lambda float64) Option {
	return func(o *options) {
		if lambda > 0 {
			o.ridge = lambda
		}
	}
}

// Engine is an immutable trained predictor. It is safe for concurrent use.
type Engine struct {
	means     []float64
	scales    []float64
	weights   []float64
	intercept float64
	samples   int
}

// Train fits an engine to the feature vectors x and transit times y.
func Train(x []domain.FeatureVector, y []float64, opts ...Option) (*Engine, error) {
	if len(x) == 0 {
		return nil, domain.ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("train: %d vectors but %d targets", len(x), len(y))
	}
	dim := len(x[0])
	if dim == 0 {
		return nil, errors.New("train: empty feature vectors")
	}
	for i, v := range x {
		if len(v) != dim {
			return nil, fmt.Errorf("train: vector %d has length %d, want %d", i, len(v), dim)
		}
	}

	o := options{ridge: DefaultRidge}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		means:   make([]float64, dim),
		scales:  make([]float64, dim),
		samples: len(x),
	}

	col := make([]float64, len(x))
	for j := range dim {
		for i, v := range x {
			col[i] = v[j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		e.means[j] = mean
		e.scales[j] = std
	}

	// With centred features the unpenalised intercept is the target mean.
	e.intercept = stat.Mean(y, nil)

	xs := mat.NewDense(len(x), dim, nil)
	for i, v := range x {
		xs.SetRow(i, e.scale(v))
	}
	yc := mat.NewVecDense(len(y), nil)
	for i, target := range y {
		yc.SetVec(i, target-e.intercept)
	}

	// Solve (XᵀX + λI) w = Xᵀy.
	var gram mat.Dense
	gram.Mul(xs.T(), xs)
	for j := range dim {
		gram.Set(j, j, gram.At(j, j)+o.ridge)
	}
	var rhs mat.VecDense
	rhs.MulVec(xs.T(), yc)

	var w mat.VecDense
	if err := w.SolveVec(&gram, &rhs); err != nil {
		return nil, fmt.Errorf("train: solve normal equations: %w", err)
	}
	e.weights = make([]float64, dim)
	for j := range dim {
		e.weights[j] = w.AtVec(j)
	}
	return e, nil
}

// Dim returns the feature vector length the engine was trained on.
func (e *Engine) Dim() int {
	return len(e.weights)
}

// Samples returns the number of training rows.
func (e *Engine) Samples() int {
	return e.samples
}

// Transform applies the fitted scaler to v.
func (e *Engine) Transform(v domain.FeatureVector) ([]float64, error) {
	if len(v) != e.Dim() {
		return nil, fmt.Errorf("transform: vector length %d, want %d", len(v), e.Dim())
	}
	return e.scale(v), nil
}

// Predict returns the transit time in hours for v. The result is not
// validated here; callers reject non-finite or non-positive values.
func (e *Engine) Predict(v domain.FeatureVector) (float64, error) {
	scaled, err := e.Transform(v)
	if err != nil {
		return 0, err
	}
	return e.intercept + mat.Dot(mat.NewVecDense(len(scaled), scaled), mat.NewVecDense(len(e.weights), e.weights)), nil
}

func (e *Engine) scale(v domain.FeatureVector) []float64 {
	out := make([]float64, len(v))
	for j, x := range v {
		out[j] = (x - e.means[j]) / e.scales[j]
	}
	return out
}
