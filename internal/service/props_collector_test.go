package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nfl-bets/internal/datasource"
	"github.com/yourusername/nfl-bets/internal/repository"
)

var collectorNow = time.Date(2025, 9, 7, 15, 0, 0, 0, time.UTC)

func newTestCollector(t *testing.T, source datasource.OddsSource, props repository.PropRepository) *PropsCollector {
	t.Helper()
	c := NewPropsCollector(source, props, newTestPopular(t, "Josh Allen", "James Cook"),
		NewDataValidator(newTestLogger()), PropsCollectorConfig{Bookmaker: "fanduel"}, newTestLogger())
	c.now = func() time.Time { return collectorNow }
	return c
}

func TestCollectTodayStoresMatchedLines(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	source := newFakeOdds(collectorNow)
	c := newTestCollector(t, source, repos.Prop)
	metrics := NewJobMetrics()

	require.NoError(t, c.CollectToday(ctx, metrics))

	assert.Equal(t, time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC), source.from)
	assert.Equal(t, time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC), source.to)
	assert.Equal(t, 4, metrics.PropsCollected)
	assert.Equal(t, 2, metrics.PropsUnmatched)

	lines, err := repos.Prop.GetByDate(ctx, "2025-09-07")
	require.NoError(t, err)
	require.Len(t, lines, 4)
	for _, l := range lines {
		assert.Equal(t, "Josh Allen", l.PlayerName)
		assert.Equal(t, "fanduel", l.Bookmaker)
		assert.Equal(t, "evt1", l.EventID)
		assert.True(t, l.Point.Valid)
	}
}

func TestCollectTodayReplacesPreviousLines(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	c := newTestCollector(t, newFakeOdds(collectorNow), repos.Prop)

	require.NoError(t, c.CollectToday(ctx, NewJobMetrics()))
	require.NoError(t, c.CollectToday(ctx, NewJobMetrics()))

	lines, err := repos.Prop.GetByDate(ctx, "2025-09-07")
	require.NoError(t, err)
	assert.Len(t, lines, 4)
}

func TestCollectTodaySkipsFailedEvents(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	source := newFakeOdds(collectorNow)
	source.events = append(source.events, datasource.Event{ID: "missing", CommenceTime: collectorNow})
	c := newTestCollector(t, source, repos.Prop)
	metrics := NewJobMetrics()

	require.NoError(t, c.CollectToday(ctx, metrics))
	assert.Equal(t, 1, metrics.Errors)
	assert.Equal(t, 4, metrics.PropsCollected)
}

func TestCollectTodayKeepsLinesWhenRefetchFails(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	source := newFakeOdds(collectorNow)
	c := newTestCollector(t, source, repos.Prop)

	require.NoError(t, c.CollectToday(ctx, NewJobMetrics()))

	source.mu.Lock()
	source.odds = map[string]*datasource.EventOdds{}
	source.mu.Unlock()

	metrics := NewJobMetrics()
	err := c.CollectToday(ctx, metrics)
	assert.Error(t, err)
	assert.Equal(t, 1, metrics.Errors)

	lines, err := repos.Prop.GetByDate(ctx, "2025-09-07")
	require.NoError(t, err)
	assert.Len(t, lines, 4)
}

func TestCollectTodayReplacesOnlyFetchedEvents(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	source := newFakeOdds(collectorNow)
	second := *source.odds["evt1"]
	second.Event.ID = "evt2"
	source.events = append(source.events, second.Event)
	source.odds["evt2"] = &second
	c := newTestCollector(t, source, repos.Prop)

	require.NoError(t, c.CollectToday(ctx, NewJobMetrics()))
	lines, err := repos.Prop.GetByDate(ctx, "2025-09-07")
	require.NoError(t, err)
	require.Len(t, lines, 8)

	source.mu.Lock()
	delete(source.odds, "evt2")
	source.mu.Unlock()

	metrics := NewJobMetrics()
	require.NoError(t, c.CollectToday(ctx, metrics))
	assert.Equal(t, 1, metrics.Errors)
	assert.Equal(t, 4, metrics.PropsCollected)

	lines, err = repos.Prop.GetByDate(ctx, "2025-09-07")
	require.NoError(t, err)
	require.Len(t, lines, 8)
	perEvent := map[string]int{}
	for _, l := range lines {
		perEvent[l.EventID]++
	}
	assert.Equal(t, map[string]int{"evt1": 4, "evt2": 4}, perEvent)
}

func TestCollectTodayNoEvents(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	c := newTestCollector(t, &fakeOddsSource{}, repos.Prop)

	require.NoError(t, c.CollectToday(ctx, NewJobMetrics()))

	_, err := repos.Prop.LatestDate(ctx)
	assert.Error(t, err)
}

func TestCollectTodayEventsError(t *testing.T) {
	repos := repository.NewMemoryRepositories()
	c := newTestCollector(t, &fakeOddsSource{eventsErr: errSourceDown}, repos.Prop)

	err := c.CollectToday(context.Background(), NewJobMetrics())
	assert.ErrorIs(t, err, errSourceDown)
}
