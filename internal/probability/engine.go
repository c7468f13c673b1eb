package probability

import (
	"errors"
	"fmt"
	"math"

	"github.com/yourusername/nfl-bets/internal/models"
)

var (
	// ErrUnknownMarket is returned for market keys with no definition
	ErrUnknownMarket = errors.New("unknown market")
	// ErrUnsupportedMarket is returned for recognized markets that are not modeled
	ErrUnsupportedMarket = errors.New("market not modeled")
	// ErrMissingPoint is returned when an over/under market has no line
	ErrMissingPoint = errors.New("over/under market requires a point")
	// ErrStatNotFound is returned when the rolling summary lacks a required stat
	ErrStatNotFound = errors.New("stat not found in rolling summary")
)

// Estimate is the modeled probability pair for a prop line. For binary
// markets First is P(yes) and Second is P(no); otherwise First is P(over)
// and Second is P(under).
type Estimate struct {
	First        float64      `json:"first"`
	Second       float64      `json:"second"`
	Distribution Distribution `json:"distribution"`
	WeightedMean float64      `json:"weighted_mean"`
	SampleSize   int          `json:"sample_size"`
}

// Probability returns the estimate for side
func (e Estimate) Probability(side Side) float64 {
	if side == Over || side == Yes {
		return e.First
	}
	return e.Second
}

// Engine computes prop probabilities from rolling summaries
type Engine struct {
	selector Selector
}

// NewEngine creates an engine with the given selector
func NewEngine(selector Selector) *Engine {
	return &Engine{selector: selector}
}

// Market computes the estimate for a sportsbook market. point is required
// for over/under markets and ignored for binary ones.
func (e *Engine) Market(rolling *models.RollingStats, marketKey string, point *float64) (Estimate, error) {
	market, ok := LookupMarket(marketKey)
	if !ok {
		return Estimate{}, fmt.Errorf("%w: %s", ErrUnknownMarket, marketKey)
	}
	if market.Kind == MarketUnsupported {
		return Estimate{}, fmt.Errorf("%w: %s", ErrUnsupportedMarket, marketKey)
	}
	if market.Kind == MarketAnytimeTouchdown {
		return e.AnytimeTouchdown(rolling), nil
	}
	if point == nil {
		return Estimate{}, fmt.Errorf("%w: %s", ErrMissingPoint, marketKey)
	}

	switch market.Kind {
	case MarketCombinedYards:
		return e.CombinedYards(rolling, market.Stats, *point), nil
	case MarketCombinedTouchdowns:
		return e.CombinedTouchdowns(rolling, *point), nil
	default:
		return e.Stat(rolling, market.Stats[0], *point)
	}
}

// Stat computes over/under probabilities for a single stat line using the
// distribution chosen by the selector.
func (e *Engine) Stat(rolling *models.RollingStats, stat string, line float64) (Estimate, error) {
	summary, ok := rolling.Summary(stat)
	if !ok {
		return Estimate{}, fmt.Errorf("%w: %s", ErrStatNotFound, stat)
	}

	dist := e.selector.Select(stat, rolling.Position, summary)
	return Estimate{
		First:        round(pick(dist, summary, line, Over), 4),
		Second:       round(pick(dist, summary, line, Under), 4),
		Distribution: dist,
		WeightedMean: round(summary.WeightedMean, 2),
		SampleSize:   summary.SampleSize,
	}, nil
}

func pick(dist Distribution, s models.StatSummary, line float64, side Side) float64 {
	normal := func() float64 { return NormalProbability(s.WeightedMean, s.WeightedStd, line, side) }
	poisson := func() float64 { return PoissonProbability(s.Lambda, line, side) }
	negbin := func() float64 { return NegativeBinomialProbability(s.WeightedMean, s.Variance(), line, side) }

	switch dist {
	case Normal:
		return normal()
	case Poisson:
		return poisson()
	case NegativeBinomial:
		return negbin()
	case Blended:
		return (normal() + negbin()) / 2
	case Averaged:
		return (normal() + poisson() + negbin()) / 3
	default:
		return 0.5
	}
}

// CombinedYards sums yardage stats assuming independence and models the total as normal
func (e *Engine) CombinedYards(rolling *models.RollingStats, stats []string, line float64) Estimate {
	var mean, variance float64
	sample := 0
	for _, name := range stats {
		s, _ := rolling.Summary(name)
		mean += s.WeightedMean
		variance += s.Variance()
		if s.SampleSize > sample {
			sample = s.SampleSize
		}
	}
	std := math.Sqrt(variance)

	return Estimate{
		First:        round(NormalProbability(mean, std, line, Over), 4),
		Second:       round(NormalProbability(mean, std, line, Under), 4),
		Distribution: NormalCombined,
		WeightedMean: round(mean, 2),
		SampleSize:   sample,
	}
}

// CombinedTouchdowns models rushing plus receiving touchdowns as a single Poisson.
// Passing touchdowns are excluded since the passer does not score them.
func (e *Engine) CombinedTouchdowns(rolling *models.RollingStats, line float64) Estimate {
	lambda, sample := touchdownRate(rolling)
	return Estimate{
		First:        round(PoissonProbability(lambda, line, Over), 4),
		Second:       round(PoissonProbability(lambda, line, Under), 4),
		Distribution: PoissonCombined,
		WeightedMean: round(lambda, 2),
		SampleSize:   sample,
	}
}

// AnytimeTouchdown returns P(at least one touchdown) and its complement
func (e *Engine) AnytimeTouchdown(rolling *models.RollingStats) Estimate {
	lambda, sample := touchdownRate(rolling)
	none := PoissonProbability(lambda, 0.5, Under)
	return Estimate{
		First:        round(1-none, 4),
		Second:       round(none, 4),
		Distribution: PoissonBinary,
		WeightedMean: round(lambda, 2),
		SampleSize:   sample,
	}
}

func touchdownRate(rolling *models.RollingStats) (float64, int) {
	var lambda float64
	sample := 0
	for _, name := range touchdownStats {
		s, _ := rolling.Summary(name)
		lambda += s.WeightedMean
		if s.SampleSize > sample {
			sample = s.SampleSize
		}
	}
	return lambda, sample
}
