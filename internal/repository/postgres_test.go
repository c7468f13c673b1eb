//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/nfl-bets/internal/database"
	"github.com/yourusername/nfl-bets/internal/models"
)

func setupPostgres(t *testing.T) (*Repositories, context.Context) {
	db := database.SetupTestDB(t)
	t.Cleanup(func() { database.TeardownTestDB(t, db) })

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return repos, ctx
}

func TestPostgresPlayerLifecycle(t *testing.T) {
	repos, ctx := setupPostgres(t)

	player := &models.Player{Name: "CeeDee Lamb", Team: "DAL", Position: "WR"}
	require.NoError(t, repos.Player.Create(ctx, player))
	require.NotZero(t, player.ID)

	got, err := repos.Player.GetByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, player.Name, got.Name)
	assert.Equal(t, player.Team, got.Team)
	assert.Equal(t, player.Position, got.Position)

	player.Team = "DAL2"
	require.NoError(t, repos.Player.Update(ctx, player))

	require.NoError(t, repos.Player.Delete(ctx, player.ID))
	_, err = repos.Player.GetByID(ctx, player.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostgresGameStatsAndRolling(t *testing.T) {
	repos, ctx := setupPostgres(t)

	for wk := 1; wk <= 3; wk++ {
		require.NoError(t, repos.GameStat.Upsert(ctx, &models.GameStat{
			PlayerExternalID: 42, PlayerName: "Travis Kelce", Season: 2025, Week: wk,
			GameDate: time.Date(2025, 9, 7*wk, 0, 0, 0, 0, time.UTC),
			Stats:    map[string]float64{models.StatReceptions: float64(wk + 3)},
		}))
	}

	games, err := repos.GameStat.GetByPlayer(ctx, 42)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, 6.0, games[2].Stat(models.StatReceptions))

	rolling := &models.RollingStats{
		PlayerExternalID: 42, PlayerName: "Travis Kelce", TotalGames: 3, LastGameDate: games[2].GameDate,
		Stats: map[string]models.StatSummary{models.StatReceptions: {WeightedMean: 5.1, SampleSize: 3}},
	}
	require.NoError(t, repos.RollingStats.Upsert(ctx, rolling))

	got, err := repos.RollingStats.GetByPlayer(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 5.1, got.Stats[models.StatReceptions].WeightedMean)
}

func TestPostgresProps(t *testing.T) {
	repos, ctx := setupPostgres(t)

	props := []*models.PropLine{{
		EventID: "e1", PlayerName: "Josh Allen", MarketKey: "player_pass_yds", Outcome: models.OutcomeOver,
		Price: decimal.RequireFromString("1.87"), Point: decimal.NewNullDecimal(decimal.RequireFromString("245.5")),
		CommenceTime: time.Now().UTC(), LastUpdate: time.Now().UTC(),
	}}
	require.NoError(t, repos.Prop.ReplaceForDate(ctx, "2025-10-19", "fanduel", props))

	got, err := repos.Prop.GetByDate(ctx, "2025-10-19")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("1.87")))

	latest, err := repos.Prop.LatestDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-19", latest)

	other := *props[0]
	other.ID = uuid.Nil
	other.EventID = "e2"
	require.NoError(t, repos.Prop.ReplaceForEvents(ctx, "2025-10-19", "fanduel", []string{"e2"}, []*models.PropLine{&other}))

	got, err = repos.Prop.GetByDate(ctx, "2025-10-19")
	require.NoError(t, err)
	require.Len(t, got, 2)
}
