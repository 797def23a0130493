package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "radio_room_triggers"

var (
	// EventsTotal counts processed room events by kind and outcome.
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of room events processed",
		},
		[]string{"kind", "outcome"},
	)

	// RuleEvaluationsTotal counts rule evaluations by kind and result.
	// result is one of fired, not_applicable, exhausted, below_threshold, ledger_error.
	RuleEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_evaluations_total",
			Help:      "Total number of trigger rule evaluations",
		},
		[]string{"kind", "result"},
	)

	// FiringsTotal counts emitted firing intents.
	FiringsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "firings_total",
			Help:      "Total number of trigger firings",
		},
		[]string{"kind", "action_type"},
	)

	// LedgerErrorsTotal counts failed firing history reads and writes.
	LedgerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_errors_total",
			Help:      "Total number of firing history ledger failures",
		},
		[]string{"operation"},
	)

	// ActionsTotal counts dispatched actions by type and status.
	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Total number of dispatched trigger actions",
		},
		[]string{"action_type", "status"},
	)

	// ActionDuration observes how long each action took, retries included.
	ActionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Duration of trigger action execution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action_type"},
	)
)

// Collectors returns every application collector for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		EventsTotal,
		RuleEvaluationsTotal,
		FiringsTotal,
		LedgerErrorsTotal,
		ActionsTotal,
		ActionDuration,
	}
}
