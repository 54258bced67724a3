package domain

import "slices"

// FeatureRequest is the ordered list of feature names a model consumes.
type FeatureRequest []string

// FeatureVector holds one value per FeatureRequest entry, in the same order.
type FeatureVector []float64

// DefaultFeatureRequest is used when no profile is configured.
var DefaultFeatureRequest = FeatureRequest{
	FeatureSpeed,
	FeatureWidth,
	FeatureMass,
	FeaturePositionAngle,
	FeatureSWBz,
	FeatureSWRatio,
	FeatureSWSpeed,
	FeatureSWLat,
	FeatureSWPressure,
	FeatureSWLon,
	FeatureSWBx,
	FeatureSWTemperature,
}

// Sorted returns a lexicographically sorted copy.
func (r FeatureRequest) Sorted() FeatureRequest {
	out := slices.Clone(r)
	slices.Sort(out)
	return out
}

// KnownFeature reports whether name resolves against event scalars or a snapshot.
func KnownFeature(name string) bool {
	switch name {
	case FeatureSpeed, FeatureFinalSpeed, FeatureWidth, FeatureMass, FeaturePositionAngle,
		FeatureSourceLat, FeatureSourceLon, FeatureAcceleration, FeatureSpeed20Rs:
		return true
	}
	_, ok := FeatureQuantity[name]
	return ok
}

// BuildFeatureVector resolves each requested name against the event scalars,
// then the snapshot, and defaults to 0. The result always has len(req) entries.
func BuildFeatureVector(req FeatureRequest, event EventParameters, snap Snapshot) FeatureVector {
	scalars := event.Scalars()
	out := make(FeatureVector, 0, len(req))
	for _, name := range req {
		if v, ok := scalars[name]; ok {
			out = append(out, v)
			continue
		}
		if q, ok := FeatureQuantity[name]; ok {
			if v, ok := snap.Value(q); ok {
				out = append(out, v)
				continue
			}
		}
		out = append(out, 0)
	}
	return out
}
