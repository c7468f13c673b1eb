// Package lambda serves classifier predictions as an AWS Lambda function.
package lambda

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/tracing"
)

const maxLinesBytes = 4 << 20

// Predictor classifies one request
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) models.PredictionResponse
}

// Doer sends outbound HTTP requests
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Handler answers direct Lambda invocations with the prediction contract
// used by POST /api/predictions.
type Handler struct {
	predictor Predictor
	client    Doer
	linesURL  string
	logger    *logrus.Entry
}

// NewHandler creates a handler. client may be nil when linesURL is empty.
func NewHandler(predictor Predictor, client Doer, linesURL string, logger *logrus.Logger) *Handler {
	return &Handler{
		predictor: predictor,
		client:    client,
		linesURL:  linesURL,
		logger:    logger.WithField("component", "lambda"),
	}
}

// Handle fetches the current betting lines and classifies req. Line fetch
// failures are logged and never block the prediction.
func (h *Handler) Handle(ctx context.Context, req models.PredictionRequest) (models.PredictionResponse, error) {
	start := time.Now()
	h.logger.WithFields(logrus.Fields{
		"feature1": valueOrNil(req.Feature1),
		"feature2": valueOrNil(req.Feature2),
		"extra":    len(req.Features),
	}).Info("Received prediction request")

	err := tracing.Capture(ctx, "betting_lines", func(ctx context.Context) error {
		n, err := h.fetchLines(ctx)
		if err != nil {
			return err
		}
		tracing.AddMetadata(ctx, "lines_bytes", n)
		return nil
	})
	if err != nil {
		h.logger.WithError(err).Warn("Failed to fetch betting lines")
	}

	var resp models.PredictionResponse
	tracing.Capture(ctx, "predict", func(ctx context.Context) error {
		resp = h.predictor.Predict(ctx, req)
		tracing.AddAnnotation(ctx, "status", string(resp.Status))
		return nil
	})

	entry := h.logger.WithFields(logrus.Fields{
		"status":     resp.Status,
		"prediction": resp.Prediction,
		"duration":   time.Since(start).String(),
	})
	if !resp.OK() {
		entry.WithField("error", resp.Error).Warn("Prediction failed")
	} else {
		entry.Info("Prediction completed")
	}
	return resp, nil
}

func (h *Handler) fetchLines(ctx context.Context) (int, error) {
	if h.linesURL == "" || h.client == nil {
		return 0, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.linesURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build betting lines request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch betting lines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("betting lines returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLinesBytes))
	if err != nil {
		return 0, fmt.Errorf("failed to read betting lines: %w", err)
	}
	h.logger.WithField("bytes", len(body)).Debug("Fetched betting lines")
	return len(body), nil
}

func valueOrNil(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
