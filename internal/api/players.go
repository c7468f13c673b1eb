package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yourusername/nfl-bets/internal/models"
)

func (s *Server) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.players.List(r.Context())
	if err != nil {
		s.playerError(w, err)
		return
	}
	if players == nil {
		players = []*models.Player{}
	}
	s.writeJSON(w, http.StatusOK, players)
}

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	player, err := s.players.Get(r.Context(), id)
	if err != nil {
		s.playerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, player)
}

func (s *Server) createPlayer(w http.ResponseWriter, r *http.Request) {
	var player models.Player
	if !s.decodePlayer(w, r, &player) {
		return
	}
	if err := s.players.Create(r.Context(), &player); err != nil {
		s.playerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, player)
}

func (s *Server) updatePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	var player models.Player
	if !s.decodePlayer(w, r, &player) {
		return
	}
	if err := s.players.Update(r.Context(), id, &player); err != nil {
		s.playerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, player)
}

func (s *Server) deletePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	if err := s.players.Delete(r.Context(), id); err != nil {
		s.playerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) playerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, models.ErrInvalidID.Error())
		return 0, false
	}
	return id, true
}

func (s *Server) decodePlayer(w http.ResponseWriter, r *http.Request, player *models.Player) bool {
	if err := decodeJSON(w, r, player); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid player body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(player); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) playerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidID), errors.Is(err, models.ErrPlayerNameRequired):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDuplicateKey):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.WithError(err).Error("Player request failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
