package probability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalProbability(t *testing.T) {
	assert.InDelta(t, 0.5, NormalProbability(100, 10, 100, Over), 1e-9)
	assert.InDelta(t, 0.5, NormalProbability(100, 10, 100, Under), 1e-9)
	assert.InDelta(t, 0.158655, NormalProbability(100, 10, 110, Over), 1e-5)
	assert.InDelta(t, 0.841345, NormalProbability(100, 10, 110, Under), 1e-5)

	// No spread means no information.
	assert.Equal(t, 0.5, NormalProbability(100, 0, 50, Over))
	assert.Equal(t, 0.5, NormalProbability(100, -1, 50, Under))
}

func TestPoissonProbabilityHalfLine(t *testing.T) {
	assert.InDelta(t, 1-math.Exp(-1), PoissonProbability(1, 0.5, Over), 1e-9)
	assert.InDelta(t, math.Exp(-1), PoissonProbability(1, 0.5, Under), 1e-9)
}

func TestPoissonProbabilityIntegerLineExcludesPush(t *testing.T) {
	e2 := math.Exp(-2)
	over := PoissonProbability(2, 2, Over)
	under := PoissonProbability(2, 2, Under)

	assert.InDelta(t, 1-5*e2, over, 1e-9)
	assert.InDelta(t, 3*e2, under, 1e-9)
	// P(X == 2) is the push.
	assert.InDelta(t, 2*e2, 1-over-under, 1e-9)
}

func TestPoissonProbabilityDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, PoissonProbability(0, 0.5, Over))
	assert.Equal(t, 1.0, PoissonProbability(0, 0.5, Under))
	assert.Equal(t, 1.0, PoissonProbability(-1, 2.5, Under))
	assert.Equal(t, 0.0, PoissonProbability(0, 0, Under))
	assert.Equal(t, 0.0, PoissonProbability(math.NaN(), 0.5, Over))
	assert.Equal(t, 0.0, PoissonProbability(3, 0, Under))
	assert.Equal(t, 0.0, PoissonProbability(3, -1, Under))
}

func TestNegativeBinomialProbability(t *testing.T) {
	// mean 2, variance 4 -> p = 0.5, r = 2; P(0) = 0.25, P(1) = 0.25
	assert.InDelta(t, 0.75, NegativeBinomialProbability(2, 4, 0.5, Over), 1e-9)
	assert.InDelta(t, 0.25, NegativeBinomialProbability(2, 4, 0.5, Under), 1e-9)
	assert.InDelta(t, 0.5, NegativeBinomialProbability(2, 4, 1.5, Over), 1e-9)
	assert.InDelta(t, 0.5, NegativeBinomialProbability(2, 4, 1.5, Under), 1e-9)
}

func TestNegativeBinomialFallsBackToPoisson(t *testing.T) {
	assert.Equal(t, PoissonProbability(3, 2.5, Over), NegativeBinomialProbability(3, 2, 2.5, Over))
	assert.Equal(t, PoissonProbability(3, 2.5, Under), NegativeBinomialProbability(3, 3, 2.5, Under))
	assert.Equal(t, 0.0, NegativeBinomialProbability(0, 5, 0.5, Over))
}

func TestNegativeBinomialHeavierTailThanPoisson(t *testing.T) {
	nb := NegativeBinomialProbability(50, 900, 100.5, Over)
	pois := PoissonProbability(50, 100.5, Over)
	assert.Greater(t, nb, pois)
}
