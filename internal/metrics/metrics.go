// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ValidationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itnav_validation_runs_total",
		Help: "Total number of validator runs.",
	})

	ValidationIssues = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "itnav_validation_issues",
		Help: "Issues found by the most recent validator run, labelled by type.",
	}, []string{"type"})

	NavigationMoves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itnav_navigation_moves_total",
		Help: "Total number of walk transitions, labelled by action.",
	}, []string{"action"})

	UnresolvedTips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itnav_unresolved_nodes_total",
		Help: "Total number of walks rendered on a node that does not exist.",
	})

	Commits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itnav_commits_total",
		Help: "Total number of drafts promoted to the committed state.",
	})

	AuthFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itnav_auth_failures_total",
		Help: "Total number of rejected admin secrets.",
	})

	StorageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itnav_storage_errors_total",
		Help: "Total number of storage failures, labelled by operation.",
	}, []string{"op"})
)
