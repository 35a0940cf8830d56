package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Dataset metrics, set once at startup.
	DatasetReady        prometheus.Gauge
	DatasetRowsLoaded   prometheus.Gauge
	DatasetRowsRejected prometheus.Gauge
	RegionEvents        *prometheus.GaugeVec // labels: region

	// Render metrics.
	RenderRequests *prometheus.CounterVec // labels: transport={http,ws,export}, outcome={success,invalid}
	RenderDuration prometheus.Histogram
	SubsetSize     prometheus.Histogram
	ViewCache      *prometheus.CounterVec // labels: result={hit,miss}

	WebSocketConnections prometheus.Gauge
	RateLimited          *prometheus.CounterVec // labels: transport={http,ws}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetReady,
		m.DatasetRowsLoaded,
		m.DatasetRowsRejected,
		m.RegionEvents,
		m.RenderRequests,
		m.RenderDuration,
		m.SubsetSize,
		m.ViewCache,
		m.WebSocketConnections,
		m.RateLimited,
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
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_dashboard",
			Name:      "dataset_ready",
			Help:      "1 once the dataset is loaded and classified.",
		}),
		DatasetRowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_dashboard",
			Name:      "dataset_rows_loaded",
			Help:      "Events held in the in-memory dataset.",
		}),
		DatasetRowsRejected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_dashboard",
			Name:      "dataset_rows_rejected",
			Help:      "CSV rows rejected at load because of an unusable time or coordinate.",
		}),
		RegionEvents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "quake_dashboard",
			Name:      "region_events",
			Help:      "Events per derived region.",
		}, []string{"region"}),
		RenderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_dashboard",
			Name:      "render_requests_total",
			Help:      "Dashboard renders by transport and outcome.",
		}, []string{"transport", "outcome"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_dashboard",
			Name:      "render_duration_seconds",
			Help:      "Time to filter, aggregate, and build charts for one selection.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		SubsetSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_dashboard",
			Name:      "subset_size",
			Help:      "Events remaining after filtering.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		ViewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_dashboard",
			Name:      "view_cache_lookups_total",
			Help:      "Rendered-view cache lookups by result.",
		}, []string{"result"}),
		WebSocketConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_dashboard",
			Name:      "websocket_connections",
			Help:      "Open live-dashboard WebSocket connections.",
		}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_dashboard",
			Name:      "rate_limited_total",
			Help:      "Requests or messages rejected by the rate limiter.",
		}, []string{"transport"}),
	}
}

// ObserveDataset records the load report and per-region counts of ds.
func (m *Metrics) ObserveDataset(ds *domain.Dataset) {
	report := ds.Report()
	m.DatasetRowsLoaded.Set(float64(ds.Len()))
	m.DatasetRowsRejected.Set(float64(report.RowsRejected))
	for region, n := range ds.RegionCounts() {
		m.RegionEvents.WithLabelValues(string(region)).Set(float64(n))
	}
	m.DatasetReady.Set(1)
}
