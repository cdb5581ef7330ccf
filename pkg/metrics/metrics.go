package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OTPIssued records OTP issuance attempts by result (dispatched|rejected|error).
	OTPIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_otp_issued_total",
			Help: "Total number of OTP issuance attempts",
		},
		[]string{"result"},
	)

	// OTPVerifications counts OTP verification attempts and their outcome
	// (success|mismatch|expired|not_requested|not_found).
	OTPVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_otp_verifications_total",
			Help: "Total number of OTP verification attempts",
		},
		[]string{"result"},
	)

	// PageViews mirrors the persisted landing-page view counter.
	PageViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_page_views_total",
			Help: "Landing page views recorded since process start",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
