package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the prometheus collectors updated by a Runner. A nil
// *Metrics records nothing.
type Metrics struct {
	items       *prometheus.CounterVec
	runs        *prometheus.CounterVec
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
}

// NewMetrics registers the dispatch collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		items: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remindr_dispatch_items_total",
				Help: "Due items handled by dispatch runs",
			},
			[]string{"kind", "status"},
		),
		runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remindr_dispatch_runs_total",
				Help: "Dispatch runs by outcome",
			},
			[]string{"outcome"},
		),
		duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "remindr_dispatch_run_duration_seconds",
				Help:    "Duration of dispatch runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
		),
		lastSuccess: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "remindr_dispatch_last_success_timestamp_seconds",
				Help: "Unix time of the last dispatch run that loaded its batch",
			},
		),
	}
}

func (m *Metrics) observeItem(res Result) {
	if m == nil {
		return
	}
	m.items.WithLabelValues(string(res.Kind), string(res.Status)).Inc()
}

func (m *Metrics) observeRun(ok bool, took time.Duration, at time.Time) {
	if m == nil {
		return
	}
	m.duration.Observe(took.Seconds())
	if !ok {
		m.runs.WithLabelValues("error").Inc()
		return
	}
	m.runs.WithLabelValues("ok").Inc()
	m.lastSuccess.Set(float64(at.Unix()))
}
