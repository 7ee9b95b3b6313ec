// Package metrics wires github.com/prometheus/client_golang into the
// runtime, per SPEC_FULL.md §11's domain-stack table ("unused by the
// distilled core — homed here" against the teacher's own direct
// dependency on the library).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every counter/histogram/gauge the runtime exports.
type Metrics struct {
	TasksCreated     *prometheus.CounterVec
	TasksTransitions *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	SSEClients       prometheus.Gauge
	PushDeliveries   *prometheus.CounterVec
	DelegationCalls  *prometheus.CounterVec
}

// New registers every metric against reg (typically
// prometheus.NewRegistry(), so tests don't collide with the default
// registry).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TasksCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a2a", Name: "tasks_created_total", Help: "Total tasks created, by skill id.",
		}, []string{"skill"}),
		TasksTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a2a", Name: "task_transitions_total", Help: "Total task state transitions, by resulting state.",
		}, []string{"state"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "a2a", Name: "http_request_duration_seconds", Help: "HTTP request duration by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		SSEClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "a2a", Name: "sse_clients", Help: "Currently attached SSE clients across all tasks.",
		}),
		PushDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a2a", Name: "push_deliveries_total", Help: "Push notifications dispatched to a task's subscribers, by event type; delivery outcome is not recorded.",
		}, []string{"type"}),
		DelegationCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "a2a", Name: "delegation_calls_total", Help: "Orchestrator delegation calls, by outcome.",
		}, []string{"outcome"}),
	}
}
