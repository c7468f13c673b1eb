// Package probability turns rolling player summaries into over/under and yes/no
// probabilities for sportsbook player props.
package probability

import (
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution names the model used to produce a probability
type Distribution string

const (
	Normal           Distribution = "normal"
	Poisson          Distribution = "poisson"
	NegativeBinomial Distribution = "negative_binomial"
	Blended          Distribution = "blended"
	Averaged         Distribution = "averaged"
	InsufficientData Distribution = "insufficient_data"
	PoissonCombined  Distribution = "poisson_combined"
	NormalCombined   Distribution = "normal_combined"
	PoissonBinary    Distribution = "poisson_binary"
)

// Side is the direction of a prop outcome relative to its line
type Side string

const (
	Over  Side = "over"
	Under Side = "under"
	Yes   Side = "yes"
	No    Side = "no"
)

// NormalProbability returns P(X > line) for Over and P(X < line) for Under.
// A degenerate spread yields 0.5.
func NormalProbability(mean, std, line float64, side Side) float64 {
	if std <= 0 || math.IsNaN(std) {
		return 0.5
	}
	cdf := distuv.Normal{Mu: mean, Sigma: std}.CDF(line)
	if side == Over {
		return 1 - cdf
	}
	return cdf
}

// PoissonProbability returns P(X > line) for Over and P(X < line) for Under.
// A non-positive rate is treated as a point mass at zero.
func PoissonProbability(lambda, line float64, side Side) float64 {
	if lambda <= 0 || math.IsNaN(lambda) {
		if side != Over && line > 0 {
			return 1
		}
		return 0
	}
	return discreteProbability(func(k float64) float64 {
		if k < 0 {
			return 0
		}
		return distuv.Poisson{Lambda: lambda}.CDF(k)
	}, line, side)
}

// NegativeBinomialProbability fits a negative binomial by the method of moments
// and returns P(X > line) for Over and P(X < line) for Under. Data that is not
// overdispersed falls back to Poisson with the same mean.
func NegativeBinomialProbability(mean, variance, line float64, side Side) float64 {
	if mean <= 0 || variance <= mean {
		return PoissonProbability(mean, line, side)
	}
	p := mean / variance
	r := mean * p / (1 - p)
	return discreteProbability(func(k float64) float64 {
		if k < 0 {
			return 0
		}
		return mathext.RegIncBeta(r, k+1, p)
	}, line, side)
}

// discreteProbability applies a CDF over non-negative integers to a possibly
// fractional line. Over excludes the line itself, as does Under.
func discreteProbability(cdf func(k float64) float64, line float64, side Side) float64 {
	if side == Over {
		return clamp01(1 - cdf(math.Floor(line)))
	}
	if line <= 0 {
		return 0
	}
	return clamp01(cdf(math.Ceil(line) - 1))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
