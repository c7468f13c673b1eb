package ml

import (
	"context"
	"fmt"
	"math"

	"github.com/yourusername/nfl-bets/internal/models"
)

// Classifier is an immutable model bound to its dataset structure. It is
// safe for concurrent use once constructed.
type Classifier struct {
	model   *Model
	dataset *Dataset
	// features lists the attribute indexes fed to the model, class excluded
	features []int
}

// NewClassifier binds model to dataset and verifies they agree
func NewClassifier(model *Model, dataset *Dataset) (*Classifier, error) {
	if model == nil || dataset == nil {
		return nil, ErrModelUnavailable
	}

	class := dataset.ClassAttribute()
	features := make([]int, 0, len(dataset.Attributes)-1)
	for i := range dataset.Attributes[:dataset.ClassIndex()] {
		features = append(features, i)
	}

	known := func(w Weights) error {
		for name := range w.Coefficients {
			idx := dataset.AttributeIndex(name)
			if idx < 0 || idx == dataset.ClassIndex() {
				return fmt.Errorf("%w: coefficient for unknown attribute %q", ErrInvalidModel, name)
			}
		}
		return nil
	}

	switch model.Type {
	case ModelLinear:
		if class.Type != AttributeNumeric {
			return nil, fmt.Errorf("%w: linear model needs a numeric class, %q is %s", ErrInvalidModel, class.Name, class.Type)
		}
		if err := known(model.Weights); err != nil {
			return nil, err
		}
	case ModelLogistic:
		if class.Type != AttributeNominal {
			return nil, fmt.Errorf("%w: logistic model needs a nominal class, %q is %s", ErrInvalidModel, class.Name, class.Type)
		}
		for value, w := range model.ClassCoefficients {
			if class.ValueIndex(value) < 0 {
				return nil, fmt.Errorf("%w: class value %q not declared in dataset", ErrInvalidModel, value)
			}
			if err := known(w); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown model type %q", ErrInvalidModel, model.Type)
	}

	return &Classifier{model: model, dataset: dataset, features: features}, nil
}

// Load reads the model artifact and dataset structure through loader
func Load(ctx context.Context, loader *Loader, modelPath, datasetPath string) (*Classifier, error) {
	rc, err := loader.Open(ctx, datasetPath)
	if err != nil {
		return nil, err
	}
	dataset, err := ParseARFF(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", datasetPath, err)
	}

	rc, err = loader.Open(ctx, modelPath)
	if err != nil {
		return nil, err
	}
	model, err := ParseModel(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", modelPath, err)
	}

	return NewClassifier(model, dataset)
}

// Version returns the model version
func (c *Classifier) Version() string {
	return c.model.Version
}

// Dataset returns the bound dataset structure
func (c *Classifier) Dataset() *Dataset {
	return c.dataset
}

// Instance builds a feature row from a request. feature1 and feature2 fill
// the first two attributes; the rest come from Features or model defaults.
func (c *Classifier) Instance(req models.PredictionRequest) ([]float64, error) {
	if req.Feature1 == nil || req.Feature2 == nil {
		return nil, fmt.Errorf("%w: feature1 and feature2 are required", ErrInvalidInput)
	}

	row := make([]float64, len(c.dataset.Attributes))
	for _, i := range c.features {
		attr := c.dataset.Attributes[i]
		var (
			v  float64
			ok bool
		)
		switch i {
		case 0:
			v, ok = *req.Feature1, true
		case 1:
			v, ok = *req.Feature2, true
		default:
			if v, ok = req.Features[attr.Name]; !ok {
				v, ok = c.model.Defaults[attr.Name]
			}
		}
		if !ok {
			return nil, fmt.Errorf("%w: missing value for attribute %q", ErrInvalidInput, attr.Name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: attribute %q is not finite", ErrInvalidInput, attr.Name)
		}
		if attr.Type == AttributeNominal && (v < 0 || v >= float64(len(attr.Values)) || v != math.Trunc(v)) {
			return nil, fmt.Errorf("%w: attribute %q needs a value index below %d", ErrInvalidInput, attr.Name, len(attr.Values))
		}
		row[i] = v
	}

	for name := range req.Features {
		if idx := c.dataset.AttributeIndex(name); idx < 0 || idx == c.dataset.ClassIndex() {
			return nil, fmt.Errorf("%w: unknown attribute %q", ErrInvalidInput, name)
		}
	}
	return row, nil
}

// Classify scores a row built by Instance. Linear models return the numeric
// prediction; logistic models return the index of the most probable class value.
func (c *Classifier) Classify(row []float64) (float64, error) {
	if len(row) != len(c.dataset.Attributes) {
		return 0, fmt.Errorf("%w: instance has %d values, schema has %d", ErrClassification, len(row), len(c.dataset.Attributes))
	}

	var out float64
	switch c.model.Type {
	case ModelLinear:
		out = c.score(c.model.Weights, row)
	case ModelLogistic:
		class := c.dataset.ClassAttribute()
		best, bestScore := -1, math.Inf(-1)
		for i, value := range class.Values {
			w, ok := c.model.ClassCoefficients[value]
			if !ok {
				continue
			}
			if s := c.score(w, row); s > bestScore {
				best, bestScore = i, s
			}
		}
		if best < 0 || math.IsNaN(bestScore) {
			return 0, fmt.Errorf("%w: no class scored", ErrClassification)
		}
		out = float64(best)
	}

	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, fmt.Errorf("%w: non-finite output", ErrClassification)
	}
	return out, nil
}

// Probabilities returns the softmax class distribution for logistic models
func (c *Classifier) Probabilities(row []float64) (map[string]float64, error) {
	if c.model.Type != ModelLogistic {
		return nil, fmt.Errorf("%w: %s model has no class distribution", ErrClassification, c.model.Type)
	}

	scores := make(map[string]float64, len(c.model.ClassCoefficients))
	maxScore := math.Inf(-1)
	for value, w := range c.model.ClassCoefficients {
		s := c.score(w, row)
		scores[value] = s
		maxScore = math.Max(maxScore, s)
	}

	var total float64
	for value, s := range scores {
		e := math.Exp(s - maxScore)
		scores[value] = e
		total += e
	}
	for value := range scores {
		scores[value] /= total
	}
	return scores, nil
}

func (c *Classifier) score(w Weights, row []float64) float64 {
	s := w.Intercept
	for name, coef := range w.Coefficients {
		s += coef * row[c.dataset.AttributeIndex(name)]
	}
	return s
}
