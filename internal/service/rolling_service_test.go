package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/repository"
	"github.com/yourusername/nfl-bets/internal/stats"
)

func seedGames(t *testing.T, repo repository.GameStatRepository, id int64, name, position string, yards ...float64) {
	t.Helper()
	for i, y := range yards {
		require.NoError(t, repo.Upsert(context.Background(), &models.GameStat{
			PlayerExternalID: id,
			PlayerName:       name,
			Team:             "BUF",
			Position:         position,
			Season:           2025,
			Week:             i + 1,
			GameDate:         time.Date(2025, 9, 7+7*i, 17, 0, 0, 0, time.UTC),
			Stats:            map[string]float64{models.StatPassingYards: y},
		}))
	}
}

func TestRollingStatsUpdateAll(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	seedGames(t, repos.GameStat, 1, "Josh Allen", "QB", 200, 250, 300)
	seedGames(t, repos.GameStat, 2, "Jalen Hurts", "QB", 180)

	svc := NewRollingStatsService(repos.GameStat, repos.RollingStats, stats.NewAggregator(2, 0.9), newTestLogger())
	updated, err := svc.UpdateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	allen, err := repos.RollingStats.GetByPlayer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Josh Allen", allen.PlayerName)
	assert.Equal(t, 3, allen.TotalGames)

	yards, ok := allen.Summary(models.StatPassingYards)
	require.True(t, ok)
	assert.Equal(t, 2, yards.SampleSize)
	assert.Equal(t, 275.0, yards.SimpleMean)
	assert.Greater(t, yards.WeightedMean, yards.SimpleMean)
	assert.False(t, allen.UpdatedAt.IsZero())
}

func TestRollingStatsUpdatePlayerWithoutGames(t *testing.T) {
	repos := repository.NewMemoryRepositories()
	svc := NewRollingStatsService(repos.GameStat, repos.RollingStats, stats.NewAggregator(0, 0), newTestLogger())

	err := svc.UpdatePlayer(context.Background(), 99)
	assert.ErrorIs(t, err, stats.ErrNoGames)
}
