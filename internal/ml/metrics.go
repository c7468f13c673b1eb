package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal tracks classifier requests by outcome
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nfl_bets",
			Name:      "predictions_total",
			Help:      "Total number of classifier predictions by status",
		},
		[]string{"status", "cache_hit"},
	)

	// PredictionLatency tracks classifier latency
	PredictionLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nfl_bets",
			Name:      "prediction_latency_seconds",
			Help:      "Classifier prediction latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// CacheHitRatio tracks cache hit ratio
	CacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nfl_bets",
			Name:      "prediction_cache_hit_ratio",
			Help:      "Classifier prediction cache hit ratio",
		},
	)

	// ModelLoaded is 1 while a classifier is available
	ModelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nfl_bets",
			Name:      "classifier_loaded",
			Help:      "Whether the classifier and dataset structure loaded",
		},
	)
)
