package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmwise_predictions_total",
		Help: "Total number of successful predictions by pipeline.",
	}, []string{"pipeline"})

	PredictionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmwise_prediction_errors_total",
		Help: "Total number of failed predictions by pipeline.",
	}, []string{"pipeline"})

	ReportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "farmwise_report_generation_duration_seconds",
		Help:    "Duration of detailed report generation including the LLM call.",
		Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
	})
)
