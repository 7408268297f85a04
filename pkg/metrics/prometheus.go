package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	FlightsChecked       prometheus.Counter
	AlertsSent           prometheus.Counter
	NotificationFailures prometheus.Counter
	SweepDuration        prometheus.Histogram
	LookupErrors         *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		FlightsChecked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_checked_total",
			Help:      "The total number of tracked flights examined by sweeps",
		}),
		AlertsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_sent_total",
			Help:      "The total number of price drop alerts committed",
		}),
		NotificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "The total number of alert emails that failed to send",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Time taken to complete one full sweep",
			Buckets:   prometheus.DefBuckets,
		}),
		LookupErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_errors_total",
			Help:      "The total number of fare lookup failures",
		}, []string{"kind"}),
	}
}
