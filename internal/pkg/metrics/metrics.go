// Package metrics provides Prometheus metrics for split plan operations.
// Labels are bounded enums only (no shop or plan identifiers).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispatchTotal counts dispatch attempts by event type and outcome (sent/failed).
	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitship_dispatch_total",
		Help: "Total number of partner dispatch attempts, by kind and outcome.",
	}, []string{"kind", "outcome"})

	// RejectedOperationsTotal counts operations refused before any write, by error class.
	RejectedOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitship_rejected_operations_total",
		Help: "Total number of rejected split plan operations, by reason.",
	}, []string{"reason"})

	// AuditEventsTotal counts appended audit events by event type.
	AuditEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitship_audit_events_total",
		Help: "Total number of audit events appended, by event type.",
	}, []string{"event_type"})
)

const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)
