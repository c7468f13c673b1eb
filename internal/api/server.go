// Package api exposes the player, prediction, probability and job endpoints over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/service"
)

// Predictor classifies feature vectors
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) models.PredictionResponse
}

// ProbabilityProvider serves prop probabilities and value opportunities
type ProbabilityProvider interface {
	TodaysProbabilities(ctx context.Context) (map[string]map[string]float64, error)
	MarketProbability(ctx context.Context, playerName, marketKey string, point *float64) ([]models.PropProbability, error)
	Opportunities(ctx context.Context) ([]models.ValueOpportunity, error)
}

// JobRunner runs the daily pipeline
type JobRunner interface {
	RunStep(ctx context.Context, step service.Step) (*models.JobRun, error)
	LastRun() *models.JobRun
}

// Config holds the dependencies of the API server
type Config struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string

	// JobsAPIKey guards POST /api/jobs/run. An empty key disables the endpoint.
	JobsAPIKey    string
	Players       *service.PlayerService
	Predictor     Predictor
	Probabilities ProbabilityProvider
	Jobs          JobRunner
	Hub           *Hub
	Logger        *logrus.Logger

	// APIMiddleware wraps the /api routes only, e.g. request tracing.
	APIMiddleware []func(http.Handler) http.Handler
}

// Server is the public HTTP API
type Server struct {
	router        *chi.Mux
	server        *http.Server
	players       *service.PlayerService
	predictor     Predictor
	probabilities ProbabilityProvider
	jobs          JobRunner
	hub           *Hub
	apiMiddleware []func(http.Handler) http.Handler
	jobsAPIKey    string
	validate      *validator.Validate
	logger        *logrus.Entry
}

// NewServer creates the API server and registers its routes
func NewServer(cfg Config) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		players:       cfg.Players,
		predictor:     cfg.Predictor,
		probabilities: cfg.Probabilities,
		jobs:          cfg.Jobs,
		hub:           cfg.Hub,
		apiMiddleware: cfg.APIMiddleware,
		jobsAPIKey:    cfg.JobsAPIKey,
		validate:      validator.New(),
		logger:        cfg.Logger.WithField("component", "api"),
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", apiKeyHeader},
		MaxAge:         300,
	}).Handler)

	s.routes()

	readTimeout, writeTimeout := cfg.ReadTimeout, cfg.WriteTimeout
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	if writeTimeout <= 0 {
		writeTimeout = 15 * time.Minute
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.apiMiddleware...)
		if s.players != nil {
			r.Route("/players", func(r chi.Router) {
				r.Get("/", s.listPlayers)
				r.Post("/", s.createPlayer)
				r.Get("/{id}", s.getPlayer)
				r.Put("/{id}", s.updatePlayer)
				r.Delete("/{id}", s.deletePlayer)
			})
		}
		if s.predictor != nil {
			r.Post("/predictions", s.predict)
		}
		if s.probabilities != nil {
			r.Get("/probabilities", s.todaysProbabilities)
			r.Get("/probabilities/{player}/{market}", s.marketProbability)
			r.Get("/opportunities", s.opportunities)
		}
		if s.jobs != nil {
			r.With(s.requireAPIKey).Post("/jobs/run", s.runJob)
			r.With(s.requireAPIKey).Get("/jobs/last", s.lastJob)
		}
	})

	if s.hub != nil {
		s.router.Get("/ws/opportunities", s.hub.ServeWS)
	}
}

// Handler returns the root handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves requests until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.server.Addr).Info("API server starting")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	s.logger.Info("API server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if s.hub != nil {
		s.hub.Close()
	}
	return s.server.Shutdown(ctx)
}
