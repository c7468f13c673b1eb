package ml

import (
	"encoding/json"
	"fmt"
	"io"
)

// ModelType selects how a model artifact scores an instance
type ModelType string

const (
	// ModelLinear predicts a numeric class value
	ModelLinear ModelType = "linear"
	// ModelLogistic predicts the index of a nominal class value
	ModelLogistic ModelType = "logistic"
)

// Weights is an intercept plus per-attribute coefficients
type Weights struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// Model is the serialized, pre-trained classifier artifact
type Model struct {
	Version string    `json:"version"`
	Type    ModelType `json:"type"`
	Weights
	ClassCoefficients map[string]Weights `json:"class_coefficients,omitempty"`
	// Defaults fill attributes that a request leaves unset.
	Defaults map[string]float64 `json:"defaults,omitempty"`
}

// ParseModel decodes a model artifact
func ParseModel(r io.Reader) (*Model, error) {
	var m Model
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	switch m.Type {
	case ModelLinear:
		if len(m.Coefficients) == 0 {
			return nil, fmt.Errorf("%w: linear model has no coefficients", ErrInvalidModel)
		}
	case ModelLogistic:
		if len(m.ClassCoefficients) < 2 {
			return nil, fmt.Errorf("%w: logistic model needs coefficients for at least two classes", ErrInvalidModel)
		}
	default:
		return nil, fmt.Errorf("%w: unknown model type %q", ErrInvalidModel, m.Type)
	}

	if m.Version == "" {
		m.Version = "unversioned"
	}
	return &m, nil
}
