package extract

import "github.com/prometheus/client_golang/prometheus"

var (
	upstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lajed",
			Subsystem: "extract",
			Name:      "upstream_calls_total",
			Help:      "Upstream model calls by profile and outcome",
		},
		[]string{"profile", "outcome"},
	)

	replyFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lajed",
			Subsystem: "extract",
			Name:      "reply_fallbacks_total",
			Help:      "Model replies with no recoverable JSON, answered with defaults",
		},
		[]string{"profile"},
	)
)

func init() {
	prometheus.MustRegister(upstreamCalls, replyFallbacks)
}
