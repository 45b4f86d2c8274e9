// Package metrics provides Prometheus instrumentation for the studio
// services. It exposes counters for moderation and publish throughput,
// gauges for recording sessions, and histograms for latency tracking.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ChecksTotal counts moderation checks, labeled by outcome:
	// "approved", "blocked", or "invalid".
	ChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_moderation_checks_total",
		Help: "Total number of moderation checks",
	}, []string{"outcome"}) // outcome = "approved", "blocked", "invalid"

	// PolicyActionsTotal counts enforcement actions taken, labeled by
	// action: "warning", "suspension", or "permanent_ban".
	PolicyActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_policy_actions_total",
		Help: "Total number of enforcement actions taken",
	}, []string{"action"})

	// PublishesTotal counts publish attempts, labeled by result:
	// "published", "rejected", or "failed".
	PublishesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_publishes_total",
		Help: "Total number of video publish attempts",
	}, []string{"result"})

	// PublishLatency records end-to-end publish latency in seconds.
	PublishLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "studio_publish_latency_seconds",
		Help:    "End-to-end publish workflow latency in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})

	// CheckLatency records classifier latency in seconds.
	CheckLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "studio_check_latency_seconds",
		Help:    "Content classification latency in seconds",
		Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
	})

	// ActiveRecordings tracks the current number of open recording sessions.
	ActiveRecordings = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "studio_active_recordings",
		Help: "Current number of open recording sessions",
	})
)

func init() {
	prometheus.MustRegister(
		ChecksTotal,
		PolicyActionsTotal,
		PublishesTotal,
		PublishLatency,
		CheckLatency,
		ActiveRecordings,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
