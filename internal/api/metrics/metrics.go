// Package metrics defines the custom Prometheus metrics of the warbler API.
// Metrics are registered with the default registry on package init through
// promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "warbler"

// SignupsTotal counts signup attempts.
// Label:
//   - result: "created", "conflict" or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
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

// FollowActionsTotal counts successful follow graph changes.
// Label:
//   - action: "follow" or "unfollow"
var FollowActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "follow_actions_total",
		Help:      "Total number of follow and unfollow actions applied.",
	},
	[]string{"action"},
)

var MessagesPostedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_posted_total",
		Help:      "Total number of messages posted.",
	},
)

// MessageLength observes the rune length of posted messages.
var MessageLength = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "message_length_runes",
		Help:      "Length of posted messages in runes.",
		Buckets:   []float64{10, 20, 40, 60, 80, 100, 120, 140},
	},
)
