package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	codesExtractedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codegate",
			Name:      "codes_extracted_total",
			Help:      "Total number of verification codes extracted and stored.",
		},
		[]string{"provenance", "rule"},
	)

	pollAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "codegate",
			Name:      "poll_attempts_total",
			Help:      "Total number of successful source listing attempts during waits.",
		},
	)

	pollErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "codegate",
			Name:      "poll_errors_total",
			Help:      "Total number of transient transport errors swallowed by the wait loop.",
		},
	)

	waitOutcomesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codegate",
			Name:      "wait_outcomes_total",
			Help:      "Terminal outcomes of bounded code waits.",
		},
		[]string{"outcome"}, // "found", "expired", "cancelled"
	)
)
