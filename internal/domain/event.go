package domain

import "time"

// Event scalar feature names.
const (
	FeatureSpeed         = "speed"
	FeatureFinalSpeed    = "final_speed"
	FeatureWidth         = "width"
	FeatureMass          = "mass"
	FeaturePositionAngle = "pa"
	FeatureSourceLat     = "source_lat"
	FeatureSourceLon     = "source_lon"
	FeatureAcceleration  = "acceleration"
	FeatureSpeed20Rs     = "speed_20rs"
)

// EventParameters holds the scalar attributes of one CME as observed by a
// coronagraph. Optional fields are nil when the catalog does not report them.
type EventParameters struct {
	Speed         float64  `json:"speed"`       // average linear speed (km/s)
	FinalSpeed    float64  `json:"final_speed"` // speed at final height (km/s)
	Width         float64  `json:"width"`       // angular width (deg)
	Mass          float64  `json:"mass"`        // grams
	PositionAngle float64  `json:"pa"`          // central position angle (deg)
	SourceLat     *float64 `json:"source_lat,omitempty"`
	SourceLon     *float64 `json:"source_lon,omitempty"`
	Acceleration  *float64 `json:"acceleration,omitempty"` // m/s^2
	Speed20Rs     *float64 `json:"speed_20rs,omitempty"`   // km/s at 20 solar radii
}

// Scalars returns the event as a feature-name table. Optional attributes are
// present only when set.
func (e EventParameters) Scalars() map[string]float64 {
	m := map[string]float64{
		FeatureSpeed:         e.Speed,
		FeatureFinalSpeed:    e.FinalSpeed,
		FeatureWidth:         e.Width,
		FeatureMass:          e.Mass,
		FeaturePositionAngle: e.PositionAngle,
	}
	if e.SourceLat != nil {
		m[FeatureSourceLat] = *e.SourceLat
	}
	if e.SourceLon != nil {
		m[FeatureSourceLon] = *e.SourceLon
	}
	if e.Acceleration != nil {
		m[FeatureAcceleration] = *e.Acceleration
	}
	if e.Speed20Rs != nil {
		m[FeatureSpeed20Rs] = *e.Speed20Rs
	}
	return m
}

// TrainingSample is one catalog event with its observed transit time.
type TrainingSample struct {
	Onset        time.Time
	Event        EventParameters
	TransitHours float64
}

// Catalog is a parsed set of training samples. Dropped counts malformed rows.
type Catalog struct {
	Samples []TrainingSample
	Dropped int
}

// Prediction is the reported outcome for one event.
type Prediction struct {
	ID              string               `json:"id"`
	Onset           string               `json:"onset"`
	Event           EventParameters      `json:"event"`
	Features        FeatureRequest       `json:"features"`
	Vector          FeatureVector        `json:"vector"`
	SolarWind       map[Quantity]float64 `json:"solar_wind"`
	Degraded        bool                 `json:"degraded"` // solar-wind table was unavailable
	TransitHours    float64              `json:"transit_hours"`
	Arrival         string               `json:"arrival"`
	ActualArrival   string               `json:"actual_arrival,omitempty"`
	DifferenceHours *int                 `json:"difference_hours,omitempty"`
	PredictedAt     time.Time            `json:"predicted_at"`
}
