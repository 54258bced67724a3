package domain

import "context"

// SeriesProvider fetches one year of hourly solar-wind rows.
type SeriesProvider interface {
	FetchYear(ctx context.Context, year int) (*SeriesTable, error)
}

// Predictor turns a feature vector into a transit time in hours.
type Predictor interface {
	Predict(vector FeatureVector) (float64, error)
}
