// Package metrics defines all custom Prometheus metrics for the auth service.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics register with the default registry at init time via promauto; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "rejected" (bad credentials, unknown user, inactive), "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts successfully issued access tokens.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued.",
	},
)

// TokenVerificationsTotal counts bearer-token verifications by outcome.
// Label:
//   - result: "valid", "malformed", "signature_invalid", "expired"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// SignupsTotal counts signup attempts by outcome.
// Label:
//   - result: "created", "conflict", "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginThrottledTotal counts login attempts rejected by the rate limiter.
var LoginThrottledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_throttled_total",
		Help:      "Total number of login attempts rejected by the throttle.",
	},
)
