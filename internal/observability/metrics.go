package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cme_arrival"

// Metrics holds the Prometheus counters, histograms, and gauges for the arrival service.
type Metrics struct {
	// Solar-wind archive metrics.
	TableFetches       *prometheus.CounterVec // labels: outcome={success,error}
	TableFetchDuration prometheus.Histogram
	TableCache         *prometheus.CounterVec // labels: result={hit,miss}
	DegradedSnapshots  prometheus.Counter
	SnapshotFallbacks  *prometheus.CounterVec // labels: quantity

	// Prediction metrics.
	Predictions        *prometheus.CounterVec // labels: outcome={success,invalid,error}
	PredictionDuration prometheus.Histogram
	PublishErrors      prometheus.Counter

	// Training metrics.
	CatalogRowsDropped prometheus.Counter
	TrainingSamples    prometheus.Gauge
	ModelReady         prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.TableFetches,
		m.TableFetchDuration,
		m.TableCache,
		m.DegradedSnapshots,
		m.SnapshotFallbacks,
		m.Predictions,
		m.PredictionDuration,
		m.PublishErrors,
		m.CatalogRowsDropped,
		m.TrainingSamples,
		m.ModelReady,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		TableFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_fetches_total",
			Help:      "Yearly solar-wind table fetches by outcome.",
		}, []string{"outcome"}),
		TableFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_fetch_duration_seconds",
			Help:      "Duration of a yearly solar-wind table download.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		TableCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_cache_total",
			Help:      "Solar-wind table cache lookups by result.",
		}, []string{"result"}),
		DegradedSnapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_snapshots_total",
			Help:      "Snapshots built without solar-wind data because the fetch failed.",
		}),
		SnapshotFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_fallbacks_total",
			Help:      "Quantities that exhausted the gap-filling search, by quantity.",
		}, []string{"quantity"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Arrival predictions by outcome.",
		}, []string{"outcome"}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "End-to-end duration of one arrival prediction.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Predictions that could not be published to Kafka.",
		}),
		CatalogRowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_rows_dropped_total",
			Help:      "CME catalog rows discarded as malformed.",
		}),
		TrainingSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "training_samples",
			Help:      "Samples used to train the current engine.",
		}),
		ModelReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_ready",
			Help:      "1 when a trained engine is loaded, 0 otherwise.",
		}),
	}
}
