// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnswersAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vmatch_answers_accepted_total",
			Help: "Answers applied to a session, by rule",
		},
		[]string{"rule"},
	)

	AnswersRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vmatch_answers_rejected_total",
			Help: "Answers rejected, by reason",
		},
		[]string{"reason"},
	)

	RolesEliminated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vmatch_roles_eliminated_total",
			Help: "Roles newly eliminated by an answer, by rule",
		},
		[]string{"rule"},
	)

	ResultsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vmatch_results_total",
			Help: "Results computed, by whether the session had completed",
		},
		[]string{"complete"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vmatch_sessions_active",
			Help: "Sessions held by the manager, including the default session",
		},
	)

	DatasetRoles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vmatch_dataset_roles",
			Help: "Roles in the loaded dataset",
		},
	)

	Reloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vmatch_dataset_reloads_total",
			Help: "Dataset reloads, by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vmatch_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)
)

// ObserveHTTP records one request.
func ObserveHTTP(route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveResult counts a computed result.
func ObserveResult(complete bool) {
	ResultsServed.WithLabelValues(strconv.FormatBool(complete)).Inc()
}
