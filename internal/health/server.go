// Package health serves liveness and readiness probes on a separate port.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const defaultPort = 8081

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// ClassifierChecker reports whether the classifier loaded.
type ClassifierChecker interface {
	Ready() error
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// check is one named readiness probe. Non-critical checks are reported
// without affecting the overall status.
type check struct {
	name     string
	critical bool
	run      func(ctx context.Context) (string, error)
}

// Server is a lightweight HTTP server for health check endpoints.
type Server struct {
	serviceName string
	version     string
	commit      string
	port        int
	server      *http.Server
	logger      *logrus.Entry
	checks      []check
	ready       atomic.Bool
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        int
	Logger      *logrus.Logger
	DB          DatabasePinger
	// Classifier is reported but does not fail readiness; predictions
	// degrade to the unavailable status instead.
	Classifier ClassifierChecker
}

// NewServer creates a new health check server. It starts out not ready.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		commit:      cfg.Commit,
		port:        port,
		logger:      log.WithField("component", "health"),
	}

	if cfg.DB != nil {
		db := cfg.DB
		s.checks = append(s.checks, check{name: "database", critical: true, run: func(ctx context.Context) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				return fmt.Sprintf("error: %v", err), err
			}
			return "ok", nil
		}})
	}
	if cfg.Classifier != nil {
		classifier := cfg.Classifier
		s.checks = append(s.checks, check{name: "classifier", run: func(context.Context) (string, error) {
			if err := classifier.Ready(); err != nil {
				return fmt.Sprintf("unavailable: %v", err), err
			}
			return "ok", nil
		}})
	}
	return s
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	return s.ready.Load()
}

// Handler returns the probe routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get("/live", s.handleLive)
	r.Get("/ready", s.handleReady)
	return r
}

// Start serves the probes in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.port).Info("Health check server starting")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Health check server error")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.logger.WithError(err).Warn("Health check server shutdown failed")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the health check server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("Health check server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
		Commit:    s.commit,
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: s.serviceName})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := map[string]string{"service": "ok"}
	healthy := s.IsReady()
	if !healthy {
		checks["service"] = "not_ready"
	}

	for _, c := range s.checks {
		result, err := c.run(r.Context())
		checks[c.name] = result
		if err != nil && c.critical {
			healthy = false
		}
	}

	response := ReadyResponse{
		Status:   "ok",
		Service:  s.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}
	status := http.StatusOK
	if !healthy {
		response.Status = "not_ready"
		status = http.StatusServiceUnavailable
		s.logger.WithField("checks", checks).Warn("Readiness check failed")
	}
	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
