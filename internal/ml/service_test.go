package ml

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/logger"
	"github.com/yourusername/nfl-bets/internal/models"
)

func testLogger() *logger.PredictionLogger {
	l := logrus.New()
	l.SetOutput(&bytes.Buffer{})
	return logger.NewPredictionLogger(l)
}

func TestServicePredict(t *testing.T) {
	svc := LoadService(context.Background(), config.ClassifierConfig{
		ModelPath:       "testdata/linear_model.json",
		DatasetPath:     "testdata/numeric.arff",
		CacheTTLSeconds: 60,
		CacheMaxSize:    10,
	}, NewLoader(nil), testLogger())
	require.NoError(t, svc.Ready())

	resp := svc.Predict(context.Background(), models.PredictionRequest{Feature1: f64(3), Feature2: f64(4)})
	assert.True(t, resp.OK())
	assert.InDelta(t, 20.0, resp.Prediction, 1e-9)
	assert.Equal(t, "2025.09-linear", resp.ModelVersion)

	// Served from cache the second time.
	resp = svc.Predict(context.Background(), models.PredictionRequest{Feature1: f64(3), Feature2: f64(4)})
	assert.True(t, resp.OK())
	hits, _, _ := svc.cache.Stats()
	assert.Equal(t, uint64(1), hits)
}

func TestServiceUnavailableReturnsSentinel(t *testing.T) {
	svc := LoadService(context.Background(), config.ClassifierConfig{
		ModelPath:   "testdata/missing.json",
		DatasetPath: "testdata/numeric.arff",
	}, NewLoader(nil), testLogger())
	assert.ErrorIs(t, svc.Ready(), ErrModelUnavailable)

	resp := svc.Predict(context.Background(), models.PredictionRequest{Feature1: f64(1), Feature2: f64(2)})
	assert.Equal(t, -1.0, resp.Prediction)
	assert.Equal(t, models.PredictionUnavailable, resp.Status)
	assert.NotEmpty(t, resp.Error)
}

func TestServiceInvalidInput(t *testing.T) {
	svc := NewService(loadClassifier(t, "linear_model.json", "numeric.arff"), nil, nil, testLogger())

	resp := svc.Predict(context.Background(), models.PredictionRequest{Feature1: f64(1)})
	assert.Equal(t, models.PredictionInvalidInput, resp.Status)
	assert.Equal(t, models.FailedPrediction, resp.Prediction)
}

func TestServiceNilClassifierIsUnavailable(t *testing.T) {
	svc := NewService(nil, nil, nil, testLogger())
	resp := svc.Predict(context.Background(), models.PredictionRequest{Feature1: f64(1), Feature2: f64(2)})
	assert.Equal(t, models.PredictionUnavailable, resp.Status)
}

func TestPredictionCache(t *testing.T) {
	c := NewPredictionCache(time.Hour, 1)
	key := CacheKey{ModelVersion: "v1", Row: []float64{1, 2.5}}
	assert.Equal(t, "v1:1:2.5", key.String())

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, 7)
	v, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	// Full: the second key is dropped.
	c.Set(CacheKey{ModelVersion: "v1", Row: []float64{3}}, 1)
	assert.Equal(t, 1, c.ItemCount())

	hits, misses, ratio := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)

	c.Clear()
	assert.Equal(t, 0, c.ItemCount())
}

func TestPredictionCacheExpiration(t *testing.T) {
	c := NewPredictionCache(50*time.Millisecond, 10)
	key := CacheKey{ModelVersion: "v1", Row: []float64{1}}
	c.Set(key, 1)

	time.Sleep(100 * time.Millisecond)
	_, ok := c.Get(key)
	assert.False(t, ok)
}
