package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dataset pipeline and the page renderer.
type Metrics struct {
	RecordsLoaded prometheus.Counter
	RowsSkipped   prometheus.Counter
	LoadDuration  prometheus.Histogram
	DatasetReady  prometheus.Gauge

	Reloads          *prometheus.CounterVec // labels: outcome={success,error}
	StatesSummarized prometheus.Gauge
	PageRenders      prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsLoaded,
		m.RowsSkipped,
		m.LoadDuration,
		m.DatasetReady,
		m.Reloads,
		m.StatesSummarized,
		m.PageRenders,
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
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_map",
			Name:      "records_loaded_total",
			Help:      "Total accident rows parsed from the CSV across all loads.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_map",
			Name:      "rows_skipped_total",
			Help:      "CSV rows dropped because a numeric field failed to parse.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "accident_map",
			Name:      "load_duration_seconds",
			Help:      "Duration of a complete load-aggregate-project cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "accident_map",
			Name:      "dataset_ready",
			Help:      "1 once a dataset snapshot has been built, 0 before.",
		}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accident_map",
			Name:      "reloads_total",
			Help:      "Dataset reload attempts by outcome.",
		}, []string{"outcome"}),
		StatesSummarized: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "accident_map",
			Name:      "states_summarized",
			Help:      "Number of states in the current summary mapping.",
		}),
		PageRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_map",
			Name:      "page_renders_total",
			Help:      "Total renders of the choropleth page.",
		}),
	}
}
