package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const defaultPath = "/metrics"

// Server exposes the registry on its own port, apart from the API listener.
type Server struct {
	port     int
	path     string
	server   *http.Server
	listener net.Listener
	logger   *logrus.Entry
}

// NewServer creates a metrics server for port and path. Port 0 picks a free port.
func NewServer(port int, path string, log *logrus.Logger) *Server {
	if path == "" {
		path = defaultPath
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		port:   port,
		path:   path,
		logger: log.WithField("component", "metrics"),
	}
}

// Handler returns the scrape route.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, s.path, Handler())
	return r
}

// Start binds the port and serves in the background until ctx is cancelled.
// A bind failure is returned directly.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on metrics port %d: %w", s.port, err)
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithFields(logrus.Fields{"addr": ln.Addr().String(), "path": s.path}).Info("Metrics server starting")
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.logger.WithError(err).Warn("Metrics server shutdown failed")
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
