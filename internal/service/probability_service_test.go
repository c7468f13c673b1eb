package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/logger"
	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/probability"
	"github.com/yourusername/nfl-bets/internal/repository"
	"github.com/yourusername/nfl-bets/internal/value"
)

func allenRolling() *models.RollingStats {
	return &models.RollingStats{
		PlayerExternalID: 19801,
		PlayerName:       "Josh Allen",
		Team:             "BUF",
		Position:         "QB",
		TotalGames:       12,
		Stats: map[string]models.StatSummary{
			models.StatPassingYards:      {WeightedMean: 250, WeightedStd: 40, Lambda: 250, SimpleMean: 248, SimpleStd: 42, SampleSize: 12},
			models.StatRushingYards:      {WeightedMean: 30, WeightedStd: 15, Lambda: 30, SimpleMean: 31, SimpleStd: 14, SampleSize: 12},
			models.StatRushingTouchdowns: {WeightedMean: 0.5, WeightedStd: 0.6, Lambda: 0.5, SimpleMean: 0.5, SimpleStd: 0.6, SampleSize: 12},
		},
	}
}

func newTestProbabilityService(t *testing.T, now time.Time) (*ProbabilityService, *repository.Repositories) {
	t.Helper()
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	require.NoError(t, repos.RollingStats.Upsert(ctx, allenRolling()))

	collector := newTestCollector(t, newFakeOdds(collectorNow), repos.Prop)
	require.NoError(t, collector.CollectToday(ctx, NewJobMetrics()))

	svc := NewProbabilityService(
		repos.Prop,
		repos.RollingStats,
		probability.NewEngine(probability.DefaultSelector()),
		value.NewEvaluator(config.ValueConfig{RemoveVig: true}),
		85,
		time.Minute,
		logger.NewPredictionLogger(newTestLogger()),
	)
	svc.now = func() time.Time { return now }
	return svc, repos
}

func TestTodaysProbabilities(t *testing.T) {
	svc, _ := newTestProbabilityService(t, collectorNow)

	probs, err := svc.TodaysProbabilities(context.Background())
	require.NoError(t, err)
	require.Contains(t, probs, "Josh Allen")

	allen := probs["Josh Allen"]
	assert.Len(t, allen, 4)
	over := allen["player_pass_yds_over_245.5"]
	under := allen["player_pass_yds_under_245.5"]
	assert.Greater(t, over, 0.5)
	assert.InDelta(t, 1.0, over+under, 1e-3)
	assert.Contains(t, allen, "player_rush_yds_over_29.5")
}

func TestTodaysProbabilitiesFallsBackToLatestDate(t *testing.T) {
	svc, _ := newTestProbabilityService(t, collectorNow.Add(48*time.Hour))

	probs, err := svc.TodaysProbabilities(context.Background())
	require.NoError(t, err)
	assert.Contains(t, probs, "Josh Allen")
}

func TestTodaysProbabilitiesSkipsUnmatchedPlayers(t *testing.T) {
	svc, repos := newTestProbabilityService(t, collectorNow)
	lines := []*models.PropLine{
		{EventID: "evt1", PlayerName: "Zeke Unknown", MarketKey: "player_rush_yds", Outcome: models.OutcomeOver,
			Price: validPropLine().Price, Point: validPropLine().Point},
	}
	require.NoError(t, repos.Prop.ReplaceForDate(context.Background(), "2025-09-07", "other", lines))

	probs, err := svc.TodaysProbabilities(context.Background())
	require.NoError(t, err)
	assert.Len(t, probs, 1)
	assert.NotContains(t, probs, "Zeke Unknown")
}

func TestTodaysProbabilitiesLogsEstimateFailures(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	require.NoError(t, repos.RollingStats.Upsert(ctx, allenRolling()))

	point := decimal.NewNullDecimal(decimal.RequireFromString("4.5"))
	lines := []*models.PropLine{
		{EventID: "evt1", PlayerName: "Josh Allen", MarketKey: "player_receptions", Outcome: models.OutcomeOver,
			Price: decimal.RequireFromString("1.91"), Point: point},
		{EventID: "evt1", PlayerName: "Josh Allen", MarketKey: "player_receptions", Outcome: models.OutcomeUnder,
			Price: decimal.RequireFromString("1.91"), Point: point},
	}
	require.NoError(t, repos.Prop.ReplaceForDate(ctx, "2025-09-07", "fanduel", lines))

	log, hook := logtest.NewNullLogger()
	svc := NewProbabilityService(repos.Prop, repos.RollingStats, probability.NewEngine(probability.DefaultSelector()),
		value.NewEvaluator(config.ValueConfig{}), 85, time.Minute, logger.NewPredictionLogger(log))
	svc.now = func() time.Time { return collectorNow }

	probs, err := svc.TodaysProbabilities(ctx)
	require.NoError(t, err)
	assert.Empty(t, probs)

	var failures []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "Failed to estimate prop probability" {
			failures = append(failures, e)
		}
	}
	require.Len(t, failures, 1)
	assert.Equal(t, logrus.WarnLevel, failures[0].Level)
	assert.Equal(t, "Josh Allen", failures[0].Data["player"])
	assert.Equal(t, "player_receptions", failures[0].Data["market"])
	assert.Equal(t, 4.5, failures[0].Data["point"])
	assert.ErrorIs(t, failures[0].Data[logrus.ErrorKey].(error), probability.ErrStatNotFound)
}

func TestTodaysProbabilitiesWithoutProps(t *testing.T) {
	repos := repository.NewMemoryRepositories()
	svc := NewProbabilityService(repos.Prop, repos.RollingStats, probability.NewEngine(probability.DefaultSelector()),
		value.NewEvaluator(config.ValueConfig{}), 85, time.Minute, logger.NewPredictionLogger(newTestLogger()))

	probs, err := svc.TodaysProbabilities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, probs)
}

func TestMarketProbability(t *testing.T) {
	svc, _ := newTestProbabilityService(t, collectorNow)
	ctx := context.Background()
	point := 245.5

	t.Run("over under", func(t *testing.T) {
		recs, err := svc.MarketProbability(ctx, "josh allen", "player_pass_yds", &point)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "player_pass_yds_over_245.5", recs[0].PropName)
		assert.Equal(t, "player_pass_yds_under_245.5", recs[1].PropName)
		assert.Equal(t, int64(19801), recs[0].PlayerExternalID)
		assert.InDelta(t, 1.0, recs[0].Probability+recs[1].Probability, 1e-3)
	})

	t.Run("anytime touchdown ignores point", func(t *testing.T) {
		recs, err := svc.MarketProbability(ctx, "Josh Allen", "player_anytime_td", &point)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "player_anytime_td_yes", recs[0].PropName)
		assert.InDelta(t, 0.3935, recs[0].Probability, 1e-4)
		assert.Nil(t, recs[0].Point)
	})

	t.Run("missing point", func(t *testing.T) {
		_, err := svc.MarketProbability(ctx, "Josh Allen", "player_pass_yds", nil)
		assert.ErrorIs(t, err, probability.ErrMissingPoint)
	})

	t.Run("unknown market", func(t *testing.T) {
		_, err := svc.MarketProbability(ctx, "Josh Allen", "player_kicking_points", &point)
		assert.ErrorIs(t, err, probability.ErrUnknownMarket)
	})

	t.Run("unknown player", func(t *testing.T) {
		_, err := svc.MarketProbability(ctx, "Zach Wilson", "player_pass_yds", &point)
		assert.ErrorIs(t, err, ErrPlayerNotMatched)
	})
}

func TestOpportunitiesNotifiesListeners(t *testing.T) {
	svc, _ := newTestProbabilityService(t, collectorNow)

	var mu sync.Mutex
	var received []models.ValueOpportunity
	svc.OnOpportunities(func(opps []models.ValueOpportunity) {
		mu.Lock()
		defer mu.Unlock()
		received = opps
	})

	opps, err := svc.Opportunities(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, opps)
	assert.Equal(t, 1, opps[0].Rank)
	assert.Equal(t, "fanduel", opps[0].Bookmaker)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, opps, received)
}
