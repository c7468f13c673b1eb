package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for classifier and probability requests.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogClassifierLoad logs the outcome of loading the model and dataset structure.
func (pl *PredictionLogger) LogClassifierLoad(modelPath, datasetPath, version string, attributes int, err error) {
	fields := logrus.Fields{
		"model_path":   modelPath,
		"dataset_path": datasetPath,
		"version":      version,
		"attributes":   attributes,
	}
	if err != nil {
		pl.WithFields(fields).WithError(err).Error("Classifier unavailable")
		return
	}
	pl.WithFields(fields).Info("Classifier loaded")
}

// LogPrediction logs a completed classifier request.
func (pl *PredictionLogger) LogPrediction(status string, prediction float64, cacheHit bool, latencyMs float64) {
	entry := pl.WithFields(logrus.Fields{
		"status":     status,
		"prediction": prediction,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	})
	if status != "ok" {
		entry.Warn("Prediction failed")
		return
	}
	entry.Debug("Prediction completed")
}

// LogProbability logs a computed prop probability.
func (pl *PredictionLogger) LogProbability(player, propName, distribution string, probability float64, sampleSize int) {
	pl.WithFields(logrus.Fields{
		"player":       player,
		"prop":         propName,
		"distribution": distribution,
		"probability":  probability,
		"sample_size":  sampleSize,
	}).Debug("Prop probability computed")
}

// LogEstimateFailure logs a prop line the engine could not price. point is nil
// for yes/no markets.
func (pl *PredictionLogger) LogEstimateFailure(player, market string, point *float64, err error) {
	entry := pl.WithError(err).WithFields(logrus.Fields{
		"player": player,
		"market": market,
	})
	if point != nil {
		entry = entry.WithField("point", *point)
	}
	entry.Warn("Failed to estimate prop probability")
}

// LogUnmatchedPlayer logs a sportsbook name with no internal match.
func (pl *PredictionLogger) LogUnmatchedPlayer(name string, bestScore float64) {
	pl.WithFields(logrus.Fields{
		"player":     name,
		"best_score": bestScore,
	}).Warn("No stats match for prop player")
}
