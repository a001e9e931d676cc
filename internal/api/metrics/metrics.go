// Package metrics defines the custom Prometheus collectors for the dealership
// site. HTTP request metrics come from the echoprometheus middleware; the
// collectors here count account, session and inventory outcomes.
//
// All collectors register with the default registry via promauto at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dealership"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate_email" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of account registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// TokenVerificationsTotal counts session tokens seen by the session middleware.
// Label:
//   - result: "valid", "expired" or "invalid"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of session token verifications, by result.",
	},
	[]string{"result"},
)

// GuardRejectionsTotal counts requests turned away by route guards.
// Label:
//   - reason: "anonymous" or "forbidden"
var GuardRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_rejections_total",
		Help:      "Total number of requests redirected by authorization guards.",
	},
	[]string{"reason"},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

// InventoryMutationsTotal counts classification and vehicle mutations.
// Labels:
//   - action: e.g. "vehicle_created", "vehicle_deleted"
//   - result: "applied", "rejected", "not_found", "forbidden" or "error"
var InventoryMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_mutations_total",
		Help:      "Total number of inventory mutations, by action and result.",
	},
	[]string{"action", "result"},
)
