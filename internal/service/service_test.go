package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nfl-bets/internal/datasource"
	"github.com/yourusername/nfl-bets/internal/models"
)

var errSourceDown = errors.New("source down")

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestPopular(t *testing.T, names ...string) *PopularPlayers {
	t.Helper()
	p, err := ParsePopularPlayers(strings.NewReader(strings.Join(names, "\n")))
	require.NoError(t, err)
	return p
}

type fakeStatsSource struct {
	rows  []datasource.PlayerGameStat
	err   error
	calls []string
}

func (f *fakeStatsSource) PlayerGameStatsByWeek(_ context.Context, season, week int) ([]datasource.PlayerGameStat, error) {
	f.calls = append(f.calls, models.SeasonWeekLabel(season, week))
	return f.rows, f.err
}

func (f *fakeStatsSource) Name() string { return "fake_stats" }

type fakeOddsSource struct {
	mu        sync.Mutex
	events    []datasource.Event
	odds      map[string]*datasource.EventOdds
	eventsErr error
	from, to  time.Time
}

func (f *fakeOddsSource) Events(_ context.Context, from, to time.Time) ([]datasource.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.from, f.to = from, to
	return f.events, f.eventsErr
}

func (f *fakeOddsSource) EventOdds(_ context.Context, eventID string) (*datasource.EventOdds, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	odds, ok := f.odds[eventID]
	if !ok {
		return nil, errSourceDown
	}
	return odds, nil
}

func (f *fakeOddsSource) Name() string { return "fake_odds" }

func statRow(id int64, name, position, category string, activated int) datasource.PlayerGameStat {
	return datasource.PlayerGameStat{
		PlayerID:           id,
		Name:               name,
		Team:               "BUF",
		Opponent:           "MIA",
		Position:           position,
		PositionCategory:   category,
		HomeOrAway:         "HOME",
		GameDate:           "2025-09-07T13:00:00",
		Activated:          activated,
		Played:             activated,
		PassingYards:       275,
		PassingAttempts:    35,
		PassingCompletions: 24,
		PassingTouchdowns:  2,
		RushingYards:       30,
		RushingAttempts:    6,
	}
}

func overUnder(player string, point, overPrice, underPrice float64) []datasource.Outcome {
	pt := decimal.NewNullDecimal(decimal.NewFromFloat(point))
	return []datasource.Outcome{
		{Name: models.OutcomeOver, Description: player, Price: decimal.NewFromFloat(overPrice), Point: pt},
		{Name: models.OutcomeUnder, Description: player, Price: decimal.NewFromFloat(underPrice), Point: pt},
	}
}

func newFakeOdds(now time.Time) *fakeOddsSource {
	event := datasource.Event{
		ID:           "evt1",
		SportKey:     "americanfootball_nfl",
		CommenceTime: now.Add(2 * time.Hour),
		HomeTeam:     "Buffalo Bills",
		AwayTeam:     "Miami Dolphins",
	}

	passOutcomes := append(overUnder("Josh Allen", 245.5, 1.91, 1.91),
		overUnder("Nobody Special", 199.5, 1.87, 1.95)...)

	return &fakeOddsSource{
		events: []datasource.Event{event},
		odds: map[string]*datasource.EventOdds{
			"evt1": {
				Event: event,
				Bookmakers: []datasource.Bookmaker{
					{
						Key: "fanduel",
						Markets: []datasource.Market{
							{Key: "player_pass_yds", LastUpdate: now, Outcomes: passOutcomes},
							{Key: "player_rush_yds", LastUpdate: now, Outcomes: overUnder("Josh Allen", 29.5, 1.83, 1.99)},
						},
					},
					{
						Key: "draftkings",
						Markets: []datasource.Market{
							{Key: "player_pass_yds", LastUpdate: now, Outcomes: overUnder("Josh Allen", 250.5, 1.9, 1.9)},
						},
					},
				},
			},
		},
	}
}
