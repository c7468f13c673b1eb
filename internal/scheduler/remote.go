package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/service"
)

// Doer sends HTTP requests
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// RemoteRunner triggers the pipeline on an API instance through
// POST /api/jobs/run instead of running it in process.
type RemoteRunner struct {
	client Doer
	url    string
	apiKey string
	logger *logrus.Entry
}

// NewRemoteRunner creates a runner posting to triggerURL
func NewRemoteRunner(client Doer, triggerURL, apiKey string, logger *logrus.Logger) *RemoteRunner {
	return &RemoteRunner{
		client: client,
		url:    triggerURL,
		apiKey: apiKey,
		logger: logger.WithField("component", "remote_runner"),
	}
}

// RunDaily triggers one run and returns the summary reported by the API
func (r *RemoteRunner) RunDaily(ctx context.Context) (*models.JobRun, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to build trigger request: %w", err)
	}
	req.Header.Set("X-API-Key", r.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to trigger pipeline: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return nil, service.ErrJobRunning
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pipeline trigger returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var run models.JobRun
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return nil, fmt.Errorf("failed to decode job run: %w", err)
	}
	r.logger.WithField("run_id", run.ID.String()).Debug("Remote pipeline run finished")
	return &run, nil
}
