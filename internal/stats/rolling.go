// Package stats computes exponentially weighted rolling summaries of player game history.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/yourusername/nfl-bets/internal/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoGames is returned when a player has no recorded games
var ErrNoGames = errors.New("no games to aggregate")

const (
	DefaultWindowGames = 18
	DefaultDecay       = 0.9
)

// Aggregator summarizes the most recent games of a player with exponential decay weights
type Aggregator struct {
	windowGames int
	decay       float64
}

// NewAggregator creates an aggregator; non-positive arguments fall back to the defaults
func NewAggregator(windowGames int, decay float64) *Aggregator {
	if windowGames <= 0 {
		windowGames = DefaultWindowGames
	}
	if decay <= 0 || decay > 1 {
		decay = DefaultDecay
	}
	return &Aggregator{windowGames: windowGames, decay: decay}
}

// WindowGames returns the configured window length
func (a *Aggregator) WindowGames() int {
	return a.windowGames
}

// Weights returns n normalized weights ordered oldest first. The most recent
// game has weight proportional to 1 and each older game is scaled by decay.
func (a *Aggregator) Weights(n int) []float64 {
	if n <= 0 {
		return nil
	}
	w := make([]float64, n)
	for i := range w {
		w[i] = math.Pow(a.decay, float64(n-1-i))
	}
	floats.Scale(1/floats.Sum(w), w)
	return w
}

// Summarize computes the weighted and simple aggregates of values ordered oldest first
func (a *Aggregator) Summarize(values []float64) models.StatSummary {
	n := len(values)
	if n == 0 {
		return models.StatSummary{}
	}

	weights := a.Weights(n)
	mean, variance := stat.PopMeanVariance(values, weights)

	summary := models.StatSummary{
		WeightedMean: round3(mean),
		Lambda:       round3(mean),
		SimpleMean:   round3(stat.Mean(values, nil)),
		SampleSize:   n,
	}
	if n >= 2 {
		summary.WeightedStd = round3(math.Sqrt(math.Max(variance, 0)))
		summary.SimpleStd = round3(stat.StdDev(values, nil))
	}
	return summary
}

// Compute builds the rolling summary for one player's games. Games are sorted
// chronologically and only the last WindowGames contribute to the aggregates;
// team and position come from the most recent game.
func (a *Aggregator) Compute(games []*models.GameStat) (*models.RollingStats, error) {
	if len(games) == 0 {
		return nil, ErrNoGames
	}

	sorted := make([]*models.GameStat, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	window := sorted
	if len(window) > a.windowGames {
		window = window[len(window)-a.windowGames:]
	}
	latest := sorted[len(sorted)-1]

	rolling := &models.RollingStats{
		PlayerExternalID: latest.PlayerExternalID,
		PlayerName:       latest.PlayerName,
		Team:             latest.Team,
		Position:         latest.Position,
		TotalGames:       len(sorted),
		LastGameDate:     latest.GameDate,
		Stats:            make(map[string]models.StatSummary, len(models.TrackedStats)),
	}

	values := make([]float64, len(window))
	for _, name := range models.TrackedStats {
		for i, g := range window {
			values[i] = g.Stat(name)
		}
		rolling.Stats[name] = a.Summarize(values)
	}

	return rolling, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
