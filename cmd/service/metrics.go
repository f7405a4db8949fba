package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	toggleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_toggle_total",
		Help: "Relation toggles by edge kind and resulting state",
	}, []string{"edge", "active"})

	cascadeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_cascade_total",
		Help: "Cascading deletes by entity kind and outcome",
	}, []string{"kind", "outcome"})

	viewDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidtube_view_duration_seconds",
		Help:    "Composed view latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"view"})
)

func observeView(view string, start time.Time) {
	viewDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
}
