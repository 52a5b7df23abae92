// Package metrics defines the Prometheus collectors for the provisioning
// service. Collectors are package-level so activities and HTTP handlers can
// record without plumbing a registry around.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProvisionRunsTotal counts finished provisioning runs by outcome
	// (succeeded, failed, rolled_back).
	ProvisionRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "provision_runs_total",
		Help: "Finished tenant provisioning runs by outcome.",
	}, []string{"outcome"})

	// StepFailuresTotal counts step failures after retries were exhausted.
	StepFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "provision_step_failures_total",
		Help: "Provisioning step failures after retry exhaustion.",
	}, []string{"step"})

	// RollbackActionsTotal counts compensation actions by resource and result.
	RollbackActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "provision_rollback_actions_total",
		Help: "Compensation delete actions by resource and result.",
	}, []string{"resource", "result"})

	// ProvisionDuration observes end-to-end run duration by outcome. Runs are
	// dominated by the database readiness poll, hence the wide buckets.
	ProvisionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provision_run_duration_seconds",
		Help:    "End-to-end tenant provisioning run duration.",
		Buckets: []float64{5, 15, 30, 60, 120, 180, 300, 600, 1200},
	}, []string{"outcome"})
)

// RecordRollback increments the rollback counter, mapping the error to a
// result label.
func RecordRollback(resource string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	RollbackActionsTotal.WithLabelValues(resource, result).Inc()
}
