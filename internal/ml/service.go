package ml

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/logger"
	"github.com/yourusername/nfl-bets/internal/models"
)

// Service answers prediction requests from a classifier loaded once at startup
type Service struct {
	classifier *Classifier
	loadErr    error
	cache      *PredictionCache
	log        *logger.PredictionLogger
}

// NewService wraps an already loaded classifier. A nil classifier or a
// non-nil loadErr leaves the service permanently unavailable.
func NewService(classifier *Classifier, loadErr error, predictionCache *PredictionCache, log *logger.PredictionLogger) *Service {
	if classifier == nil && loadErr == nil {
		loadErr = ErrModelUnavailable
	}
	if loadErr != nil {
		classifier = nil
		ModelLoaded.Set(0)
	} else {
		ModelLoaded.Set(1)
	}
	return &Service{
		classifier: classifier,
		loadErr:    loadErr,
		cache:      predictionCache,
		log:        log,
	}
}

// LoadService loads the classifier described by cfg. Load failures are
// logged and yield an unavailable service rather than an error.
func LoadService(ctx context.Context, cfg config.ClassifierConfig, loader *Loader, log *logger.PredictionLogger) *Service {
	classifier, err := Load(ctx, loader, cfg.ModelPath, cfg.DatasetPath)

	version, attributes := "", 0
	if classifier != nil {
		version, attributes = classifier.Version(), len(classifier.Dataset().Attributes)
	}
	log.LogClassifierLoad(cfg.ModelPath, cfg.DatasetPath, version, attributes, err)

	var predictionCache *PredictionCache
	if cfg.CacheTTLSeconds > 0 {
		predictionCache = NewPredictionCache(time.Duration(cfg.CacheTTLSeconds)*time.Second, cfg.CacheMaxSize)
	}
	return NewService(classifier, err, predictionCache, log)
}

// Ready returns nil when predictions can be served
func (s *Service) Ready() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, s.loadErr)
	}
	return nil
}

// Classifier returns the loaded classifier, or nil when unavailable
func (s *Service) Classifier() *Classifier {
	return s.classifier
}

// Predict classifies one request. It never returns an error: failures are
// reported through the response status with the prediction set to -1.
func (s *Service) Predict(ctx context.Context, req models.PredictionRequest) (resp models.PredictionResponse) {
	start := time.Now()
	cacheHit := false

	defer func() {
		if r := recover(); r != nil {
			resp = models.FailedResponse(models.PredictionClassifierError, fmt.Errorf("%w: %v", ErrClassification, r))
		}
		PredictionsTotal.WithLabelValues(string(resp.Status), strconv.FormatBool(cacheHit)).Inc()
		PredictionLatency.Observe(time.Since(start).Seconds())
		s.log.LogPrediction(string(resp.Status), resp.Prediction, cacheHit, float64(time.Since(start).Microseconds())/1000)
	}()

	if err := ctx.Err(); err != nil {
		return models.FailedResponse(models.PredictionUnavailable, err)
	}
	if s.classifier == nil {
		return models.FailedResponse(models.PredictionUnavailable, s.Ready())
	}

	row, err := s.classifier.Instance(req)
	if err != nil {
		return failure(err)
	}

	key := CacheKey{ModelVersion: s.classifier.Version(), Row: row}
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			cacheHit = true
			return models.PredictionResponse{Prediction: v, Status: models.PredictionOK, ModelVersion: key.ModelVersion}
		}
	}

	prediction, err := s.classifier.Classify(row)
	if err != nil {
		return failure(err)
	}
	if s.cache != nil {
		s.cache.Set(key, prediction)
	}

	return models.PredictionResponse{
		Prediction:   prediction,
		Status:       models.PredictionOK,
		ModelVersion: key.ModelVersion,
	}
}

func failure(err error) models.PredictionResponse {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return models.FailedResponse(models.PredictionInvalidInput, err)
	case errors.Is(err, ErrModelUnavailable):
		return models.FailedResponse(models.PredictionUnavailable, err)
	default:
		return models.FailedResponse(models.PredictionClassifierError, err)
	}
}
