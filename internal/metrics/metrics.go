// Package metrics exposes crawl progress as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const labelExtractor = "extractor"

// Metrics groups the collectors of one crawl run. Each run owns its own
// registry so several runs can live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	PagesVisited       prometheus.Counter
	NavigationFailures prometheus.Counter
	PagesSkipped       prometheus.Counter
	LinksQueued        prometheus.Counter
	ExtractorErrors    *prometheus.CounterVec
	PageDuration       prometheus.Summary
	QueueLength        prometheus.Gauge
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PagesVisited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brandscan_pages_visited_total",
			Help: "Pages rendered and run through the extraction pipeline.",
		}),
		NavigationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brandscan_navigation_failures_total",
			Help: "Navigations that failed or timed out.",
		}),
		PagesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brandscan_pages_skipped_total",
			Help: "Dequeued URLs skipped as visited, too deep or disallowed.",
		}),
		LinksQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brandscan_links_queued_total",
			Help: "URLs added to the crawl queue, seed included.",
		}),
		ExtractorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brandscan_extractor_errors_total",
			Help: "Extractor failures by extractor name.",
		}, []string{labelExtractor}),
		PageDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Name:       "brandscan_page_duration_seconds",
			Help:       "Time spent on a page from navigation to last extractor.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
		QueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "brandscan_queue_length",
			Help: "URLs waiting in the crawl queue.",
		}),
	}

	m.Registry.MustRegister(
		m.PagesVisited,
		m.NavigationFailures,
		m.PagesSkipped,
		m.LinksQueued,
		m.ExtractorErrors,
		m.PageDuration,
		m.QueueLength,
	)
	return m
}

// ExtractorFailed counts a failure of the named extractor.
func (m *Metrics) ExtractorFailed(name string) {
	m.ExtractorErrors.WithLabelValues(name).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
