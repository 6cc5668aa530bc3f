package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

// Metrics holds the Prometheus collectors of the application.
// It implements engine.Observer.
type Metrics struct {
	Snapshots       prometheus.Counter
	SnapshotErrors  *prometheus.CounterVec
	SnapshotLatency prometheus.Histogram
	PercentLived    prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Snapshots: f.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricNamespace,
			Name:      config.MetricSnapshots,
			Help:      "Total number of life snapshots computed",
		}),
		SnapshotErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.MetricNamespace,
			Name:      config.MetricSnapshotErrors,
			Help:      "Total number of rejected snapshot requests, labeled by reason",
		}, []string{config.MetricLabelReason}),
		SnapshotLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.MetricNamespace,
			Name:      config.MetricSnapshotLatency,
			Help:      "Time spent computing stats and the week grid",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		PercentLived: f.NewGauge(prometheus.GaugeOpts{
			Namespace: config.MetricNamespace,
			Name:      config.MetricPercentLived,
			Help:      "Life progress of the latest snapshot, in percent",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.MetricNamespace,
			Name:      config.MetricHTTPRequests,
			Help:      "HTTP requests served, labeled by route and status code",
		}, []string{config.MetricLabelRoute, config.MetricLabelCode}),
	}
}

// ObserveSnapshot records a successful computation.
func (m *Metrics) ObserveSnapshot(start time.Time, s engine.Snapshot) {
	m.Snapshots.Inc()
	m.SnapshotLatency.Observe(time.Since(start).Seconds())
	m.PercentLived.Set(s.Stats.PercentLived)
}

// ObserveRejected records a validation failure.
func (m *Metrics) ObserveRejected(err error) {
	reason := "other"
	switch {
	case errors.Is(err, engine.ErrInvalidDate):
		reason = "invalid_date"
	case errors.Is(err, engine.ErrInvalidConfiguration):
		reason = "invalid_configuration"
	}
	m.SnapshotErrors.WithLabelValues(reason).Inc()
}
