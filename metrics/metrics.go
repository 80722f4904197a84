// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "churn_predictor_request_duration_seconds",
			Help:    "Total time taken for requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churn_predictor_predictions_total",
			Help: "Predictions served by outcome",
		},
		[]string{"outcome"},
	)

	ErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churn_predictor_error_count",
			Help: "Failed predictions by error kind",
		},
		[]string{"kind"},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churn_predictor_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)
)
