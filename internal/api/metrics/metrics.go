// Package metrics defines and registers the custom Prometheus metrics of the
// blog API. It is the single source of truth for metric names, labels, and
// help strings. HTTP request metrics come from echoprometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Authentication ────────────────────────────────────────────────────────────

// AuthenticationsTotal counts identity resolutions by the Authenticate middleware.
// Labels:
//   - source: "session", "bearer" or "none"
//   - result: "ok" or "rejected"
var AuthenticationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authentications_total",
		Help:      "Total number of request authentications, by identity source and result.",
	},
	[]string{"source", "result"},
)

// AuthorizationDenialsTotal counts requests refused by a permission guard.
// Label:
//   - permission: the permission that was missing (e.g. "read_users")
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied for a missing permission.",
	},
	[]string{"permission"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PasswordHashDuration measures bcrypt work per call.
// Label:
//   - op: "hash" or "verify"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of bcrypt password hashing and verification.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ObservePasswordHash feeds PasswordHashDuration; pass it to auth.WithHashObserver.
func ObservePasswordHash(op string, elapsed time.Duration) {
	PasswordHashDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ── Password reset ────────────────────────────────────────────────────────────

// PasswordResetsTotal counts password-reset operations.
// Labels:
//   - stage: "request", "check" or "consume"
//   - result: "ok", "not_found", "expired", "throttled", "invalid", "mail_failed"
//     or "error"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password-reset operations, by stage and result.",
	},
	[]string{"stage", "result"},
)

// MailFailuresTotal counts notification emails that could not be delivered.
// Label:
//   - template: "reset_password" or "account_created"
var MailFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_failures_total",
		Help:      "Total number of notification emails that failed to send.",
	},
	[]string{"template"},
)
