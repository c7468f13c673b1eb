package api

import (
	"fmt"
	"net/http"

	"github.com/yourusername/nfl-bets/internal/ml"
	"github.com/yourusername/nfl-bets/internal/models"
)

// predictionStatusCodes maps prediction statuses onto HTTP codes. The body
// always carries the prediction value, -1 for every failure.
var predictionStatusCodes = map[models.PredictionStatus]int{
	models.PredictionOK:              http.StatusOK,
	models.PredictionInvalidInput:    http.StatusBadRequest,
	models.PredictionUnavailable:     http.StatusServiceUnavailable,
	models.PredictionClassifierError: http.StatusInternalServerError,
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writePrediction(w, models.FailedResponse(models.PredictionInvalidInput, fmt.Errorf("%w: %v", ml.ErrInvalidInput, err)))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writePrediction(w, models.FailedResponse(models.PredictionInvalidInput, fmt.Errorf("%w: %v", ml.ErrInvalidInput, err)))
		return
	}

	s.writePrediction(w, s.predictor.Predict(r.Context(), req))
}

func (s *Server) writePrediction(w http.ResponseWriter, resp models.PredictionResponse) {
	code, ok := predictionStatusCodes[resp.Status]
	if !ok {
		code = http.StatusInternalServerError
	}
	s.writeJSON(w, code, resp)
}
