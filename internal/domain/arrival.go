package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Arrival is a predicted Earth-arrival time, optionally compared with an observed one.
type Arrival struct {
	Onset        time.Time
	TransitHours float64
	Predicted    time.Time
	Actual       *time.Time

	// DifferenceHours is predicted minus actual, rounded to whole hours.
	DifferenceHours *int
}

// MaxTransitHours is the longest transit a time.Duration can represent, about 292 years.
const MaxTransitHours = float64(math.MaxInt64) / float64(time.Hour)

// ValidateTransit rejects transit times that cannot be turned into a date.
func ValidateTransit(hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return fmt.Errorf("%w: transit time %v is not finite", ErrInvalidPrediction, hours)
	}
	if hours <= 0 {
		return fmt.Errorf("%w: transit time %v must be positive", ErrInvalidPrediction, hours)
	}
	if hours*float64(time.Hour) >= float64(math.MaxInt64) {
		return fmt.Errorf("%w: transit time %v exceeds %.0f hours", ErrInvalidPrediction, hours, MaxTransitHours)
	}
	return nil
}

// AddTransit offsets t by a fractional number of hours, rounded to the second.
// Negative offsets are allowed.
func AddTransit(t time.Time, hours float64) time.Time {
	return t.Add(time.Duration(hours * float64(time.Hour))).Round(time.Second)
}

// ComputeArrival adds a validated transit time to the onset. When actual is
// non-nil the signed difference predicted-actual is filled in.
func ComputeArrival(onset time.Time, transitHours float64, actual *time.Time) (Arrival, error) {
	if err := ValidateTransit(transitHours); err != nil {
		return Arrival{}, err
	}

	a := Arrival{
		Onset:        onset,
		TransitHours: transitHours,
		Predicted:    AddTransit(onset, transitHours),
	}
	if actual != nil {
		diff := int(math.Round(a.Predicted.Sub(*actual).Hours()))
		at := *actual
		a.Actual = &at
		a.DifferenceHours = &diff
	}
	return a, nil
}

// NewPrediction assembles the reported record for one event, assigning a fresh
// ID and the current time.
func NewPrediction(event EventParameters, req FeatureRequest, vec FeatureVector, snap Snapshot, a Arrival) Prediction {
	p := Prediction{
		ID:              uuid.NewString(),
		Onset:           FormatTimestamp(a.Onset),
		Event:           event,
		Features:        req,
		Vector:          vec,
		SolarWind:       snap.Values(),
		Degraded:        snap.Empty(),
		TransitHours:    a.TransitHours,
		Arrival:         FormatTimestamp(a.Predicted),
		DifferenceHours: a.DifferenceHours,
		PredictedAt:     clock.Now(),
	}
	if a.Actual != nil {
		p.ActualArrival = FormatTimestamp(*a.Actual)
	}
	return p
}
