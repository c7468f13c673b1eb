package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/models"
)

const sportsDataSource = "sportsdata"

const sportsDataTimeLayout = "2006-01-02T15:04:05"

// SportsDataClient implements StatsSource for the sportsdata.io NFL stats feed
type SportsDataClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Entry
}

// PlayerGameStat is one row of the PlayerGameStatsByWeek response
type PlayerGameStat struct {
	PlayerID         int64  `json:"PlayerID"`
	Name             string `json:"Name"`
	Team             string `json:"Team"`
	Opponent         string `json:"Opponent"`
	Position         string `json:"Position"`
	PositionCategory string `json:"PositionCategory"`
	HomeOrAway       string `json:"HomeOrAway"`
	GameDate         string `json:"GameDate"`
	Activated        int    `json:"Activated"`
	Played           int    `json:"Played"`

	PassingYards         float64 `json:"PassingYards"`
	PassingTouchdowns    float64 `json:"PassingTouchdowns"`
	PassingInterceptions float64 `json:"PassingInterceptions"`
	PassingAttempts      float64 `json:"PassingAttempts"`
	PassingCompletions   float64 `json:"PassingCompletions"`
	RushingYards         float64 `json:"RushingYards"`
	RushingTouchdowns    float64 `json:"RushingTouchdowns"`
	RushingAttempts      float64 `json:"RushingAttempts"`
	RushingLong          float64 `json:"RushingLong"`
	ReceivingYards       float64 `json:"ReceivingYards"`
	ReceivingTouchdowns  float64 `json:"ReceivingTouchdowns"`
	Receptions           float64 `json:"Receptions"`
	ReceivingTargets     float64 `json:"ReceivingTargets"`
	ReceivingLong        float64 `json:"ReceivingLong"`

	Fumbles                      float64 `json:"Fumbles"`
	FumblesLost                  float64 `json:"FumblesLost"`
	TwoPointConversionPasses     float64 `json:"TwoPointConversionPasses"`
	TwoPointConversionRuns       float64 `json:"TwoPointConversionRuns"`
	TwoPointConversionReceptions float64 `json:"TwoPointConversionReceptions"`
}

// IsOffensive reports whether the player is in the offensive position category
func (p *PlayerGameStat) IsOffensive() bool {
	return p.PositionCategory == "OFF"
}

// IsActivated reports whether the player was active for the game
func (p *PlayerGameStat) IsActivated() bool {
	return p.Activated == 1
}

// ToGameStat converts the feed row into a stored game stat
func (p *PlayerGameStat) ToGameStat(season, week int) models.GameStat {
	gs := models.GameStat{
		PlayerExternalID: p.PlayerID,
		PlayerName:       strings.TrimSpace(p.Name),
		Team:             p.Team,
		Opponent:         p.Opponent,
		Position:         strings.ToUpper(p.Position),
		PositionCategory: p.PositionCategory,
		HomeOrAway:       p.HomeOrAway,
		Season:           season,
		Week:             week,
		Activated:        p.Activated == 1,
		Played:           p.Played == 1,
		Stats: map[string]float64{
			models.StatPassingYards:         p.PassingYards,
			models.StatPassingTouchdowns:    p.PassingTouchdowns,
			models.StatPassingInterceptions: p.PassingInterceptions,
			models.StatPassingAttempts:      p.PassingAttempts,
			models.StatPassingCompletions:   p.PassingCompletions,
			models.StatRushingYards:         p.RushingYards,
			models.StatRushingTouchdowns:    p.RushingTouchdowns,
			models.StatRushingAttempts:      p.RushingAttempts,
			models.StatRushingLong:          p.RushingLong,
			models.StatReceivingYards:       p.ReceivingYards,
			models.StatReceivingTouchdowns:  p.ReceivingTouchdowns,
			models.StatReceptions:           p.Receptions,
			models.StatTargets:              p.ReceivingTargets,
			models.StatReceivingLong:        p.ReceivingLong,
			models.StatFumbles:              p.Fumbles,
			models.StatFumblesLost:          p.FumblesLost,
			models.StatTwoPointPassing:      p.TwoPointConversionPasses,
			models.StatTwoPointRushing:      p.TwoPointConversionRuns,
			models.StatTwoPointReceiving:    p.TwoPointConversionReceptions,
		},
	}
	if t, err := time.ParseInLocation(sportsDataTimeLayout, p.GameDate, time.UTC); err == nil {
		gs.GameDate = t
	}
	return gs
}

// NewSportsDataClient creates a new sportsdata.io client
func NewSportsDataClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *SportsDataClient {
	return &SportsDataClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.WithField("source", sportsDataSource),
	}
}

// Name returns the name of the data source
func (c *SportsDataClient) Name() string {
	return sportsDataSource
}

// PlayerGameStatsByWeek retrieves every player's game line for season and week
func (c *SportsDataClient) PlayerGameStatsByWeek(ctx context.Context, season, week int) ([]PlayerGameStat, error) {
	endpoint := fmt.Sprintf("%s/PlayerGameStatsByWeek/%d/%d?%s", c.baseURL, season, week, url.Values{"key": {c.apiKey}}.Encode())

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, NewDataSourceError(sportsDataSource, ErrCodeNetworkError, "failed to fetch weekly stats", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(sportsDataSource, resp)
	}

	var rows []PlayerGameStat
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, NewDataSourceError(sportsDataSource, ErrCodeInvalidData, "failed to parse response", err)
	}

	c.logger.WithFields(logrus.Fields{
		"season": season,
		"week":   week,
		"rows":   len(rows),
	}).Debug("Fetched weekly player stats")
	return rows, nil
}
