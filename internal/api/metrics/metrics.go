// Package metrics defines all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names,
// labels, and help strings; promauto registers everything with the default
// registry at init time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Checkout metrics ─────────────────────────────────────────────────────────

// CheckoutsTotal counts successfully completed checkouts.
var CheckoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of successfully completed checkouts.",
	},
)

// CheckoutErrorsTotal counts failed checkout attempts.
// Label:
//   - reason: "validation" (stock/not-found gate) or "stock_commit"
//     (a conditional decrement lost a race after validation).
var CheckoutErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_errors_total",
		Help:      "Total number of checkout failures, by reason.",
	},
	[]string{"reason"},
)

// CheckoutValue observes the order total of each completed checkout.
var CheckoutValue = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_value",
		Help:      "Order totals of completed checkouts.",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 8), // 10 … ~163k
	},
)

// CheckoutDuration measures a checkout attempt end-to-end.
var CheckoutDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_duration_seconds",
		Help:      "Duration of checkout processing from cart load to response.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Cart metrics ─────────────────────────────────────────────────────────────

// CartMutationsTotal counts committed cart line mutations.
// Label:
//   - op: "add", "update" or "delete"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of committed cart line mutations, by operation.",
	},
	[]string{"op"},
)

// CartCountCacheTotal counts cart badge cache lookups.
// Label:
//   - result: "hit" or "miss"
var CartCountCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_count_cache_total",
		Help:      "Total number of cart count cache lookups, labelled by result.",
	},
	[]string{"result"},
)
