package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockroom_mutations_total",
		Help: "Committed mutations by entity and action.",
	}, []string{"entity", "action"})

	AuditAppends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockroom_audit_appends_total",
		Help: "Activity log records appended.",
	})

	AuditFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockroom_audit_failures_total",
		Help: "Activity log appends that failed and rolled back their mutation.",
	})
)
