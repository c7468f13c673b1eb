package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/yourusername/nfl-bets/internal/service"
)

// runJob runs the pipeline synchronously. The run is detached from the
// request context so a dropped client does not abort it halfway.
func (s *Server) runJob(w http.ResponseWriter, r *http.Request) {
	step := service.StepAll
	if name := r.URL.Query().Get("step"); name != "" {
		parsed, err := service.ParseStep(name)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		step = parsed
	}

	run, err := s.jobs.RunStep(context.WithoutCancel(r.Context()), step)
	if errors.Is(err, service.ErrJobRunning) {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("Job run failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) lastJob(w http.ResponseWriter, r *http.Request) {
	run := s.jobs.LastRun()
	if run == nil {
		s.writeError(w, http.StatusNotFound, "no job has run yet")
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}
