package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reset token lifecycle events used as the "event" label.
const (
	TokenIssued   = "issued"
	TokenConsumed = "consumed"
	TokenRejected = "rejected"
	TokenSwept    = "swept"
)

var (
	// HTTPRequestCounter counts processed HTTP requests.
	HTTPRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailer_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestDuration observes HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mailer_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// EmailsSent counts outbound emails by template and result.
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailer_emails_sent_total",
			Help: "Outbound emails by template and delivery status.",
		},
		[]string{"template", "status"},
	)

	// ResetTokens counts password reset token lifecycle events.
	ResetTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailer_reset_tokens_total",
			Help: "Password reset token events.",
		},
		[]string{"event"},
	)
)
