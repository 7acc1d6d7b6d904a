package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the record-level failures the engine recovers from. Parsing
// swallows malformed payloads by contract, so these counters are the only
// place a sudden spike in bad telemetry becomes visible.
var (
	MalformedPayloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_malformed_payloads_total",
		Help: "Payloads that produced zero correctness records, by reason.",
	}, []string{"reason"})

	UnclassifiedGames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_unclassified_games_total",
		Help: "Event groups skipped because their game has no registered mechanic.",
	})

	ReconciliationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_runs_total",
		Help: "Completed reconciliation passes over an event snapshot.",
	})
)
