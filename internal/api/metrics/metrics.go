// Package metrics defines and registers the custom Prometheus metrics of the
// article CMS. It is the single source of truth for metric names, labels, and
// help strings. Metrics are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cms"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success", "duplicate", "bad_credentials", "invalid", or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// GateOutcomesTotal counts the final state the authentication gate reached
// for each non-public request.
// Label:
//   - state: "no_token", "token_invalid", "token_valid", or "auth_established"
var GateOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_gate_outcomes_total",
		Help:      "Total number of requests seen by the authentication gate, by final state.",
	},
	[]string{"state"},
)

// ── Article metrics ───────────────────────────────────────────────────────────

// ArticleMutationsTotal counts article writes.
// Labels:
//   - op: "create", "update", or "delete"
//   - result: "ok", "replay", "forbidden", "not_found", or "error"
var ArticleMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "article_mutations_total",
		Help:      "Total number of article create/update/delete operations, by outcome.",
	},
	[]string{"op", "result"},
)
