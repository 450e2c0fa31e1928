// Package metrics defines and registers all custom Prometheus metrics for the
// expense tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package load;
// HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expense_tracker"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts sign-in and registration attempts.
// Labels:
//   - method: "register", "login" or "google"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// ── Transaction metrics ───────────────────────────────────────────────────────

// TransactionsCreatedTotal counts newly stored transactions.
// Label:
//   - type: "income" or "expense"
var TransactionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_created_total",
		Help:      "Total number of transactions created, by type.",
	},
	[]string{"type"},
)

// TransactionMutationsTotal counts updates and deletes that reached the store.
// Label:
//   - operation: "update" or "delete"
var TransactionMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transaction_mutations_total",
		Help:      "Total number of transaction updates and deletes.",
	},
	[]string{"operation"},
)

// IdempotentReplaysTotal counts creates answered from an earlier request.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of create requests answered by idempotent replay.",
	},
)

// ── Summary metrics ───────────────────────────────────────────────────────────

// SummaryDuration measures how long summary composition takes.
// Label:
//   - scope: "user" or "admin"
var SummaryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "summary_duration_seconds",
		Help:      "Duration of summary and overview composition.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"scope"},
)
