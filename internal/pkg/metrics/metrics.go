// Package metrics defines and registers all custom Prometheus metrics for the
// PLM console. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// through promauto; /metrics serves them via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "plm_console"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts outbound calls to the PLM API.
// Labels:
//   - op: logical operation (e.g. "login", "list_products")
//   - code: HTTP status code, or "network_error" when no response arrived
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of calls made to the PLM API.",
	},
	[]string{"op", "code"},
)

// GatewayRequestDuration measures round-trip latency of PLM API calls.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Round-trip duration of PLM API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session store operations.
// Labels:
//   - event: "login", "reload", "restore", "logout"
//   - result: "ok", "failed", "superseded", "absent"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session store operations, by event and result.",
	},
	[]string{"event", "result"},
)

// ── Product metrics ───────────────────────────────────────────────────────────

// StatusAdvancesTotal counts status-advance requests.
// Labels:
//   - to: requested target status
//   - result: "ok" or "rejected"
var StatusAdvancesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_advances_total",
		Help:      "Total number of product status-advance requests, by target and result.",
	},
	[]string{"to", "result"},
)

// ProductsCreatedTotal counts products created through the form, by category.
var ProductsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created, by category.",
	},
	[]string{"category"},
)

// ── Console metrics ───────────────────────────────────────────────────────────

// ConsoleRequestsTotal counts requests served by the console HTTP surface.
var ConsoleRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "console_requests_total",
		Help:      "Total number of console HTTP requests, by route and status code.",
	},
	[]string{"route", "code"},
)
