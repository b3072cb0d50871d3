// Package metrics declares the prometheus collectors of the client core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mutation outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeRejectedLocal = "rejected_local"
	OutcomeFailed        = "failed"
)

// Mutations counts reconciler mutations by kind and outcome.
var Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "coined",
	Subsystem: "reconciler",
	Name:      "mutations_total",
	Help:      "Mutations issued through the reconciler by kind and outcome.",
}, []string{"kind", "outcome"})

// GatewayDuration observes remote gateway call latency.
var GatewayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "coined",
	Subsystem: "gateway",
	Name:      "request_duration_seconds",
	Help:      "Latency of remote gateway calls by method and status code.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "code"})

// Notifications counts published notices by kind.
var Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "coined",
	Subsystem: "notify",
	Name:      "published_total",
	Help:      "Notices published to the notification channel.",
}, []string{"kind"})

// ObserveMutation records the outcome of one mutation.
func ObserveMutation(kind, outcome string) {
	Mutations.WithLabelValues(kind, outcome).Inc()
}
