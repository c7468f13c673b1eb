package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/probability"
	"github.com/yourusername/nfl-bets/internal/service"
)

type marketResponse struct {
	Player        string                   `json:"player"`
	Market        string                   `json:"market"`
	Point         *float64                 `json:"point,omitempty"`
	Probabilities []models.PropProbability `json:"probabilities"`
}

func (s *Server) todaysProbabilities(w http.ResponseWriter, r *http.Request) {
	probs, err := s.probabilities.TodaysProbabilities(r.Context())
	if err != nil {
		s.probabilityError(w, err)
		return
	}
	if probs == nil {
		probs = map[string]map[string]float64{}
	}
	s.writeJSON(w, http.StatusOK, probs)
}

func (s *Server) marketProbability(w http.ResponseWriter, r *http.Request) {
	player, err := url.PathUnescape(chi.URLParam(r, "player"))
	if err != nil || player == "" {
		s.writeError(w, http.StatusBadRequest, "invalid player name")
		return
	}
	market := chi.URLParam(r, "market")

	var point *float64
	if raw := r.URL.Query().Get("point"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid point: "+raw)
			return
		}
		point = &p
	}

	probs, err := s.probabilities.MarketProbability(r.Context(), player, market, point)
	if err != nil {
		s.probabilityError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, marketResponse{
		Player:        player,
		Market:        market,
		Point:         point,
		Probabilities: probs,
	})
}

func (s *Server) opportunities(w http.ResponseWriter, r *http.Request) {
	opps, err := s.probabilities.Opportunities(r.Context())
	if err != nil {
		s.probabilityError(w, err)
		return
	}
	if opps == nil {
		opps = []models.ValueOpportunity{}
	}
	s.writeJSON(w, http.StatusOK, opps)
}

func (s *Server) probabilityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, probability.ErrUnknownMarket),
		errors.Is(err, probability.ErrUnsupportedMarket),
		errors.Is(err, probability.ErrMissingPoint):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlayerNotMatched),
		errors.Is(err, probability.ErrStatNotFound),
		errors.Is(err, models.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.WithError(err).Error("Probability request failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
