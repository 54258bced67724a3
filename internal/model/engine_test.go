package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
)

// linearData returns rows of y = 10 + 2*a - 3*b with a constant third column.
func linearData() ([]domain.FeatureVector, []float64) {
	var x []domain.FeatureVector
	var y []float64
	for a := 1.0; a <= 5; a++ {
		for b := 0.0; b <= 3; b++ {
			x = append(x, domain.FeatureVector{a, b, 7})
			y = append(y, 10+2*a-3*b)
		}
	}
	return x, y
}

func TestTrain_RecoversLinearRelation(t *testing.T) {
	x, y := linearData()
	e, err := Train(x, y, WithRidge(1e-9))
	require.NoError(t, err)

	assert.Equal(t, 3, e.Dim())
	assert.Equal(t, len(x), e.Samples())

	got, err := e.Predict(domain.FeatureVector{4, 1, 7})
	require.NoError(t, err)
	assert.InDelta(t, 15.0, got, 1e-6)

	got, err = e.Predict(domain.FeatureVector{10, 0, 7})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, got, 1e-6, "extrapolates linearly")
}

func TestTrain_ConstantFeatureIgnored(t *testing.T) {
	x, y := linearData()
	e, err := Train(x, y)
	require.NoError(t, err)

	assert.Equal(t, 0.0, e.weights[2])

	p1, err := e.Predict(domain.FeatureVector{3, 2, 7})
	require.NoError(t, err)
	p2, err := e.Predict(domain.FeatureVector{3, 2, 1e16})
	require.NoError(t, err)
	assert.InDelta(t, p1, p2, 1e-9)
}

func TestTrain_RidgeShrinksTowardMean(t *testing.T) {
	x, y := linearData()
	loose, err := Train(x, y, WithRidge(1e-9))
	require.NoError(t, err)
	tight, err := Train(x, y, WithRidge(1e6))
	require.NoError(t, err)

	v := domain.FeatureVector{5, 0, 7}
	pl, _ := loose.Predict(v)
	pt, _ := tight.Predict(v)

	mean := tight.intercept
	assert.Less(t, math.Abs(pt-mean), math.Abs(pl-mean))
}

func TestTrain_SingleSample(t *testing.T) {
	e, err := Train([]domain.FeatureVector{{1, 2}}, []float64{42})
	require.NoError(t, err)

	got, err := e.Predict(domain.FeatureVector{100, -5})
	require.NoError(t, err)
	assert.InDelta(t, 42.0, got, 1e-9)
}

func TestTrain_Errors(t *testing.T) {
	_, err := Train(nil, nil)
	assert.True(t, errors.Is(err, domain.ErrEmptyTrainingSet))

	_, err = Train([]domain.FeatureVector{{1}}, []float64{1, 2})
	assert.Error(t, err)

	_, err = Train([]domain.FeatureVector{{1, 2}, {1}}, []float64{1, 2})
	assert.Error(t, err)

	_, err = Train([]domain.FeatureVector{{}}, []float64{1})
	assert.Error(t, err)
}

func TestEngine_Transform(t *testing.T) {
	x := []domain.FeatureVector{{1, 5}, {3, 5}}
	e, err := Train(x, []float64{1, 2})
	require.NoError(t, err)

	scaled, err := e.Transform(domain.FeatureVector{2, 5})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0}, scaled, 1e-12)

	_, err = e.Transform(domain.FeatureVector{1})
	assert.Error(t, err)

	_, err = e.Predict(domain.FeatureVector{1, 2, 3})
	assert.Error(t, err)
}
