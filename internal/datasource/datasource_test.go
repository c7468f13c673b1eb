package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testClient(name string) *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 1
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 2 * time.Millisecond
	cfg.RateLimit = 1000
	cfg.Burst = 10
	cfg.FailureThreshold = 2
	return NewRateLimitedHTTPClient(name, cfg, quietLogger())
}

const weeklyStatsJSON = `[
  {"PlayerID": 19801, "Name": "Josh Allen", "Team": "BUF", "Opponent": "BAL", "Position": "QB",
   "PositionCategory": "OFF", "HomeOrAway": "HOME", "GameDate": "2025-09-07T20:20:00",
   "Activated": 1, "Played": 1, "PassingYards": 394, "PassingTouchdowns": 2, "PassingInterceptions": 0,
   "PassingAttempts": 46, "PassingCompletions": 33, "RushingYards": 30, "RushingTouchdowns": 2,
   "RushingAttempts": 8, "RushingLong": 10, "ReceivingYards": null, "Fumbles": 1}
]`

func TestSportsDataPlayerGameStatsByWeek(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, weeklyStatsJSON)
	}))
	defer srv.Close()

	c := NewSportsDataClient(testClient("sportsdata"), srv.URL+"/", "sd-key", quietLogger())
	rows, err := c.PlayerGameStatsByWeek(context.Background(), 2025, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "/PlayerGameStatsByWeek/2025/1", gotPath)
	assert.Equal(t, "sd-key", gotKey)
	assert.Equal(t, "sportsdata", c.Name())

	row := rows[0]
	assert.True(t, row.IsOffensive())
	assert.True(t, row.IsActivated())

	gs := row.ToGameStat(2025, 1)
	assert.Equal(t, int64(19801), gs.PlayerExternalID)
	assert.Equal(t, "QB", gs.Position)
	assert.True(t, gs.Played)
	assert.Equal(t, 394.0, gs.Stat(models.StatPassingYards))
	assert.Equal(t, 0.0, gs.Stat(models.StatReceivingYards))
	assert.Equal(t, 1.0, gs.Stat(models.StatFumbles))
	assert.Equal(t, time.Date(2025, 9, 7, 20, 20, 0, 0, time.UTC), gs.GameDate)
	assert.Equal(t, "2025_week_1", gs.SeasonWeek())
}

func TestSportsDataErrorCodes(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusUnauthorized, ErrCodeAuthenticationFailed},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusBadRequest, ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewSportsDataClient(testClient("sportsdata"), srv.URL, "bad", quietLogger())
			_, err := c.PlayerGameStatsByWeek(context.Background(), 2025, 1)
			require.Error(t, err)
			assert.True(t, IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestSportsDataInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "{not json")
	}))
	defer srv.Close()

	c := NewSportsDataClient(testClient("sportsdata"), srv.URL, "k", quietLogger())
	_, err := c.PlayerGameStatsByWeek(context.Background(), 2025, 1)
	assert.True(t, IsCode(err, ErrCodeInvalidData))
}

const eventOddsJSON = `{
  "id": "evt-1", "sport_key": "americanfootball_nfl", "commence_time": "2025-09-07T20:20:00Z",
  "home_team": "Buffalo Bills", "away_team": "Baltimore Ravens",
  "bookmakers": [
    {"key": "draftkings", "title": "DraftKings", "markets": []},
    {"key": "fanduel", "title": "FanDuel", "markets": [
      {"key": "player_pass_yds", "last_update": "2025-09-07T15:00:00Z", "outcomes": [
        {"name": "Over", "description": "Josh Allen", "price": 1.87, "point": 245.5},
        {"name": "Under", "description": "Josh Allen", "price": 1.95, "point": 245.5}
      ]},
      {"key": "player_anytime_td", "last_update": "2025-09-07T15:00:00Z", "outcomes": [
        {"name": "Yes", "description": "Derrick Henry", "price": 1.6}
      ]}
    ]}
  ]
}`

func TestOddsAPIEventOdds(t *testing.T) {
	var query map[string][]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.Query()
		w.Header().Set("x-requests-remaining", "499")
		_, _ = io.WriteString(w, eventOddsJSON)
	}))
	defer srv.Close()

	c := NewOddsAPIClient(testClient("odds"), srv.URL, "odds-key", "americanfootball_nfl", "us",
		[]string{"player_pass_yds", "player_anytime_td"}, quietLogger())
	odds, err := c.EventOdds(context.Background(), "evt-1")
	require.NoError(t, err)

	assert.Equal(t, "/sports/americanfootball_nfl/events/evt-1/odds", path)
	assert.Equal(t, []string{"decimal"}, query["oddsFormat"])
	assert.Equal(t, []string{"player_pass_yds,player_anytime_td"}, query["markets"])
	assert.Equal(t, []string{"odds-key"}, query["apiKey"])

	book, ok := odds.Bookmaker("FanDuel")
	require.True(t, ok)
	require.Len(t, book.Markets, 2)

	over := book.Markets[0].Outcomes[0]
	assert.Equal(t, "Josh Allen", over.Description)
	assert.Equal(t, "1.87", over.Price.String())
	require.True(t, over.Point.Valid)
	assert.Equal(t, "245.5", over.Point.Decimal.String())

	yes := book.Markets[1].Outcomes[0]
	assert.False(t, yes.Point.Valid)

	_, ok = odds.Bookmaker("betmgm")
	assert.False(t, ok)
}

func TestOddsAPIEventsFiltersWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("commenceTimeFrom"))
		_, _ = io.WriteString(w, `[
			{"id": "a", "commence_time": "2025-09-07T17:00:00Z"},
			{"id": "b", "commence_time": "2025-09-07T23:20:00Z"},
			{"id": "d", "commence_time": "2025-09-08T00:20:00Z"},
			{"id": "c", "commence_time": "2025-09-06T23:00:00Z"}
		]`)
	}))
	defer srv.Close()

	c := NewOddsAPIClient(testClient("odds"), srv.URL, "k", "americanfootball_nfl", "us", nil, quietLogger())
	from := time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)
	got, err := c.Events(context.Background(), from, from.Add(24*time.Hour))
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestHTTPClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "[]")
	}))
	defer srv.Close()

	c := NewSportsDataClient(testClient("sportsdata"), srv.URL, "k", quietLogger())
	rows, err := c.PlayerGameStatsByWeek(context.Background(), 2025, 2)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPClientBreakerOpensOnServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := testClient("flaky")
	c := NewSportsDataClient(client, srv.URL, "k", quietLogger())

	for i := 0; i < 2; i++ {
		_, err := c.PlayerGameStatsByWeek(context.Background(), 2025, 1)
		assert.True(t, IsCode(err, ErrCodeServerError), "got %v", err)
	}
	assert.Equal(t, gobreaker.StateOpen, client.BreakerState())

	_, err := c.PlayerGameStatsByWeek(context.Background(), 2025, 1)
	assert.True(t, IsCode(err, ErrCodeNetworkError))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestFactory(t *testing.T) {
	cfg := config.DataSourcesConfig{
		SportsData: config.SportsDataConfig{BaseURL: "https://api.sportsdata.io/v3/nfl/stats/json", APIKey: "sd"},
		OddsAPI:    config.OddsAPIConfig{BaseURL: "https://api.the-odds-api.com/v4", Sport: "americanfootball_nfl", Regions: "us"},
		HTTP:       config.HTTPClientConfig{TimeoutSeconds: 5, RequestsPerSecond: 1, Burst: 1, BreakerFailureThreshold: 3, BreakerTimeoutSeconds: 10},
	}
	f := NewFactory(cfg, quietLogger())

	stats, err := f.NewStatsSource()
	require.NoError(t, err)
	assert.Equal(t, "sportsdata", stats.Name())

	_, err = f.NewOddsSource()
	assert.ErrorContains(t, err, "odds API key")
}
