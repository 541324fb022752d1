// Package metrics holds the Prometheus collectors for search runs and the
// HTTP stepping API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdrpinto/gridsearch"
)

// Metrics holds Prometheus metrics for search runs.
type Metrics struct {
	SearchesTotal  *prometheus.CounterVec
	ExploredCells  *prometheus.HistogramVec
	PathLength     *prometheus.HistogramVec
	SearchDuration *prometheus.HistogramVec
	ActiveSessions prometheus.Gauge
	RequestsTotal  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
//
// Metrics:
//   - gridsearch_searches_total{strategy,status}
//   - gridsearch_explored_cells{strategy}
//   - gridsearch_path_length{strategy}
//   - gridsearch_search_duration_seconds{strategy}
//   - gridsearch_active_sessions
//   - gridsearch_http_requests_total{method,route,code}
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	cells := prometheus.ExponentialBuckets(4, 4, 8)
	return &Metrics{
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridsearch_searches_total",
				Help: "Total number of finished search runs",
			},
			[]string{"strategy", "status"},
		),
		ExploredCells: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gridsearch_explored_cells",
				Help:    "Cells accepted for expansion per run",
				Buckets: cells,
			},
			[]string{"strategy"},
		),
		PathLength: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gridsearch_path_length",
				Help:    "Cells on the found path, start and goal included",
				Buckets: cells,
			},
			[]string{"strategy"},
		),
		SearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gridsearch_search_duration_seconds",
				Help:    "Wall time of a search run in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"strategy"},
		),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gridsearch_active_sessions",
			Help: "Open stepping sessions",
		}),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridsearch_http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
	}
}

// ObserveResult records one finished run. Path length is only observed for
// solved runs.
func (m *Metrics) ObserveResult(res gridsearch.Result, duration time.Duration) {
	strategy := res.Strategy.String()
	m.SearchesTotal.WithLabelValues(strategy, res.Status.String()).Inc()
	m.ExploredCells.WithLabelValues(strategy).Observe(float64(res.ExploredCount))
	m.SearchDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if res.Found() {
		m.PathLength.WithLabelValues(strategy).Observe(float64(res.Len()))
	}
}
