package models

// PredictionStatus classifies the outcome of a classifier request
type PredictionStatus string

const (
	PredictionOK              PredictionStatus = "ok"
	PredictionInvalidInput    PredictionStatus = "invalid_input"
	PredictionUnavailable     PredictionStatus = "unavailable"
	PredictionClassifierError PredictionStatus = "classifier_error"
)

// FailedPrediction is the numeric value returned alongside any non-ok status.
const FailedPrediction = -1.0

// PredictionRequest carries the feature values for one classification.
// Features holds values for schema attributes beyond feature1 and feature2.
type PredictionRequest struct {
	Feature1 *float64           `json:"feature1" validate:"required"`
	Feature2 *float64           `json:"feature2" validate:"required"`
	Features map[string]float64 `json:"features,omitempty"`
}

// PredictionResponse is the explicit result of a classifier request
type PredictionResponse struct {
	Prediction   float64          `json:"prediction"`
	Status       PredictionStatus `json:"status"`
	Error        string           `json:"error,omitempty"`
	ModelVersion string           `json:"model_version,omitempty"`
}

// OK reports whether the prediction succeeded
func (r PredictionResponse) OK() bool {
	return r.Status == PredictionOK
}

// FailedResponse builds a non-ok response carrying the legacy -1 value
func FailedResponse(status PredictionStatus, err error) PredictionResponse {
	resp := PredictionResponse{Prediction: FailedPrediction, Status: status}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}
