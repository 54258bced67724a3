package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func exampleEvent() EventParameters {
	return EventParameters{
		Speed:         1050,
		FinalSpeed:    980,
		Width:         360,
		Mass:          1.2e16,
		PositionAngle: 270,
	}
}

func exampleSnapshot() Snapshot {
	table := testTable(48, func(rows [][]string) {
		rows[0][QuantityBz.Column()] = "-3.5"
		rows[0][QuantityV.Column()] = "410"
		rows[0][QuantityP.Column()] = "1.8"
	})
	return BuildSnapshot(table, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), 6)
}

func TestBuildFeatureVector_Order(t *testing.T) {
	req := FeatureRequest{FeatureSWSpeed, FeatureSpeed, FeatureSWBz, FeatureWidth, FeatureSWPressure}

	got := BuildFeatureVector(req, exampleEvent(), exampleSnapshot())

	want := FeatureVector{410, 1050, -3.5, 360, 1.8}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFeatureVector_MissingDefaultsToZero(t *testing.T) {
	req := FeatureRequest{FeatureSpeed, "not_a_feature", FeatureSourceLat, FeatureSWBz}

	got := BuildFeatureVector(req, exampleEvent(), exampleSnapshot())

	assert.Equal(t, FeatureVector{1050, 0, 0, -3.5}, got)
}

func TestBuildFeatureVector_OptionalScalars(t *testing.T) {
	lat, accel := -12.0, 15.5
	event := exampleEvent()
	event.SourceLat = &lat
	event.Acceleration = &accel

	req := FeatureRequest{FeatureSourceLat, FeatureSourceLon, FeatureAcceleration, FeatureSpeed20Rs}
	got := BuildFeatureVector(req, event, Snapshot{})

	assert.Equal(t, FeatureVector{-12, 0, 15.5, 0}, got)
}

func TestBuildFeatureVector_EmptySnapshot(t *testing.T) {
	got := BuildFeatureVector(DefaultFeatureRequest, exampleEvent(), Snapshot{})

	assert.Len(t, got, len(DefaultFeatureRequest))
	assert.Equal(t, FeatureVector{1050, 360, 1.2e16, 270, 0, 0, 0, 0, 0, 0, 0, 0}, got)
}

func TestBuildFeatureVector_FallbackPassesThrough(t *testing.T) {
	got := BuildFeatureVector(FeatureRequest{FeatureSWRatio}, exampleEvent(), exampleSnapshot())
	assert.Equal(t, FeatureVector{FallbackValue}, got)
}

func TestBuildFeatureVector_LengthInvariant(t *testing.T) {
	snap := exampleSnapshot()
	names := []string{FeatureSpeed, "x", FeatureSWTemperature, FeatureSWLon, "", FeatureMass, FeatureSpeed}

	for n := 0; n <= len(names); n++ {
		req := FeatureRequest(names[:n])
		assert.Len(t, BuildFeatureVector(req, exampleEvent(), snap), n)
		assert.Len(t, BuildFeatureVector(req, EventParameters{}, Snapshot{}), n)
	}
}

func TestBuildFeatureVector_Idempotent(t *testing.T) {
	snap := exampleSnapshot()
	first := BuildFeatureVector(DefaultFeatureRequest, exampleEvent(), snap)
	second := BuildFeatureVector(DefaultFeatureRequest, exampleEvent(), snap)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("rebuild differs (-first +second):\n%s", diff)
	}
}

func TestFeatureRequest_Sorted(t *testing.T) {
	req := FeatureRequest{FeatureWidth, FeatureSWBz, FeatureSpeed}

	sorted := req.Sorted()

	assert.Equal(t, FeatureRequest{FeatureSpeed, FeatureSWBz, FeatureWidth}, sorted)
	assert.Equal(t, FeatureWidth, req[0], "original is untouched")
}

func TestKnownFeature(t *testing.T) {
	for _, name := range DefaultFeatureRequest {
		assert.True(t, KnownFeature(name), name)
	}
	assert.True(t, KnownFeature(FeatureSpeed20Rs))
	assert.False(t, KnownFeature("Bz"), "bare quantity keys are not feature names")
	assert.False(t, KnownFeature(""))
}
