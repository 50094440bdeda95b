package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/approute/pkg/approute"
)

// DefaultMetricsNamespace is the namespace used when none is configured.
const DefaultMetricsNamespace = "approute"

// Metrics holds the Prometheus collectors updated by the scanner.
//
// Metrics collected:
//   - approute_scan_total: Counter of scans by status (success, error)
//   - approute_scan_duration_seconds: Histogram of scan duration
//   - approute_routes_discovered: Gauge of routes found by the last
//     successful scan, by type (page, route)
type Metrics struct {
	scans    *prometheus.CounterVec
	duration prometheus.Histogram
	routes   *prometheus.GaugeVec
}

// NewMetrics registers the scanner collectors with reg. An empty namespace
// selects DefaultMetricsNamespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultMetricsNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		scans: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_total",
			Help:      "Total number of app directory scans",
		}, []string{"status"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "App directory scan duration in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}),

		routes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "routes_discovered",
			Help:      "Number of routes found by the last successful scan",
		}, []string{"type"}),
	}
}

// observe records one scan. It is safe to call on a nil *Metrics.
func (m *Metrics) observe(routes []ScannedRoute, seconds float64, err error) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
	if err != nil {
		m.scans.WithLabelValues("error").Inc()
		return
	}
	m.scans.WithLabelValues("success").Inc()

	counts := map[approute.PageType]int{approute.PageTypePage: 0, approute.PageTypeRoute: 0}
	for _, r := range routes {
		counts[r.Type]++
	}
	for t, n := range counts {
		m.routes.WithLabelValues(t.String()).Set(float64(n))
	}
}
