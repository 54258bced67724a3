package domain

import "errors"

var (
	// ErrDataUnavailable wraps any failure to fetch a solar-wind table.
	// It is absorbed at the snapshot boundary and never reaches callers of Predict.
	ErrDataUnavailable = errors.New("solar wind data unavailable")

	// ErrInvalidPrediction is returned when a predictor yields a transit time
	// that is not finite or not positive.
	ErrInvalidPrediction = errors.New("invalid prediction")

	// ErrEmptyTrainingSet is returned when a catalog produced no usable rows.
	ErrEmptyTrainingSet = errors.New("empty training set")

	// ErrMalformedRow marks a catalog line that could not be parsed.
	ErrMalformedRow = errors.New("malformed catalog row")
)
