// Package metrics provides Prometheus instrumentation for the
// moderation pipeline: counters for message dispositions and
// enforcement actions, and a histogram for check latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesTotal counts processed messages, labeled by result:
	// "clean", "matched" or "skipped".
	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_messages_total",
		Help: "Total number of messages processed by the moderation pipeline",
	}, []string{"result"})

	// ActionsTotal counts enforcement actions taken, labeled by action:
	// "warn", "kick" or "ban".
	ActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_actions_total",
		Help: "Total number of enforcement actions applied",
	}, []string{"action"})

	// CheckDuration records banned-term matching latency in seconds.
	CheckDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "moderation_check_duration_seconds",
		Help:    "Banned-term matching latency in seconds",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
	})
)

func init() {
	prometheus.MustRegister(
		MessagesTotal,
		ActionsTotal,
		CheckDuration,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
