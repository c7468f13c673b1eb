package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/nfl-bets/internal/models"
)

func TestWeightsSumToOneAndFavorRecent(t *testing.T) {
	a := NewAggregator(18, 0.9)

	w := a.Weights(5)
	require.Len(t, w, 5)

	sum := 0.0
	for i, v := range w {
		sum += v
		if i > 0 {
			assert.Greater(t, v, w[i-1], "weight %d should exceed the older weight", i)
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.InDelta(t, 0.9, w[3]/w[4], 1e-12)
	assert.Nil(t, a.Weights(0))
}

func TestNewAggregatorDefaults(t *testing.T) {
	a := NewAggregator(0, 1.5)
	assert.Equal(t, DefaultWindowGames, a.WindowGames())
	assert.Equal(t, DefaultDecay, a.decay)
}

func TestSummarizeTwoValues(t *testing.T) {
	a := NewAggregator(18, 0.9)

	// weights: oldest 0.9/1.9, newest 1/1.9
	s := a.Summarize([]float64{10, 20})
	wOld, wNew := 0.9/1.9, 1/1.9
	mean := 10*wOld + 20*wNew

	assert.InDelta(t, mean, s.WeightedMean, 0.001)
	assert.Equal(t, s.WeightedMean, s.Lambda)
	assert.Equal(t, 15.0, s.SimpleMean)
	assert.InDelta(t, 7.071, s.SimpleStd, 0.001)
	assert.Equal(t, 2, s.SampleSize)
	assert.Greater(t, s.WeightedStd, 0.0)
}

func TestSummarizeSingleValueHasNoSpread(t *testing.T) {
	s := NewAggregator(18, 0.9).Summarize([]float64{42})
	assert.Equal(t, 42.0, s.WeightedMean)
	assert.Zero(t, s.WeightedStd)
	assert.Zero(t, s.SimpleStd)
	assert.Equal(t, 1, s.SampleSize)
}

func TestSummarizeConstantSeries(t *testing.T) {
	s := NewAggregator(18, 0.9).Summarize([]float64{3, 3, 3, 3})
	assert.Equal(t, 3.0, s.WeightedMean)
	assert.Zero(t, s.WeightedStd)
}

func game(week int, team string, receptions float64) *models.GameStat {
	return &models.GameStat{
		PlayerExternalID: 11,
		PlayerName:       "Amon-Ra St. Brown",
		Team:             team,
		Position:         "WR",
		Season:           2025,
		Week:             week,
		GameDate:         time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*week),
		Stats:            map[string]float64{models.StatReceptions: receptions},
	}
}

func TestComputeAppliesWindowAndLatestMetadata(t *testing.T) {
	a := NewAggregator(3, 0.9)

	games := []*models.GameStat{game(4, "DET", 9), game(1, "OLD", 1), game(3, "DET", 7), game(2, "DET", 5)}
	rolling, err := a.Compute(games)
	require.NoError(t, err)

	assert.Equal(t, int64(11), rolling.PlayerExternalID)
	assert.Equal(t, "DET", rolling.Team)
	assert.Equal(t, 4, rolling.TotalGames)
	assert.Equal(t, games[0].GameDate, rolling.LastGameDate)

	rec, ok := rolling.Summary(models.StatReceptions)
	require.True(t, ok)
	assert.Equal(t, 3, rec.SampleSize)
	assert.Equal(t, 7.0, rec.SimpleMean)
	assert.Greater(t, rec.WeightedMean, rec.SimpleMean)

	// Untracked-in-game stats are treated as zeros.
	py, ok := rolling.Summary(models.StatPassingYards)
	require.True(t, ok)
	assert.Zero(t, py.WeightedMean)
	assert.Len(t, rolling.Stats, len(models.TrackedStats))
}

func TestComputeNoGames(t *testing.T) {
	_, err := NewAggregator(18, 0.9).Compute(nil)
	assert.ErrorIs(t, err, ErrNoGames)
}
