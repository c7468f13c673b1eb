package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const oddsAPISource = "odds_api"

const oddsAPITimeLayout = "2006-01-02T15:04:05Z"

// OddsAPIClient implements OddsSource for The Odds API
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	sport      string
	regions    string
	markets    []string
	logger     *logrus.Entry
}

// Event is a scheduled game
type Event struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}

// Outcome is one priced side of a market. Description carries the player name.
type Outcome struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	Point       decimal.NullDecimal `json:"point"`
}

// Market is a bookmaker's prop market for an event
type Market struct {
	Key        string    `json:"key"`
	LastUpdate time.Time `json:"last_update"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Bookmaker is one sportsbook's markets for an event
type Bookmaker struct {
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	LastUpdate time.Time `json:"last_update"`
	Markets    []Market  `json:"markets"`
}

// EventOdds is the event odds response
type EventOdds struct {
	Event
	Bookmakers []Bookmaker `json:"bookmakers"`
}

// Bookmaker returns the named bookmaker's markets
func (e *EventOdds) Bookmaker(key string) (*Bookmaker, bool) {
	for i := range e.Bookmakers {
		if strings.EqualFold(e.Bookmakers[i].Key, key) {
			return &e.Bookmakers[i], true
		}
	}
	return nil, false
}

// NewOddsAPIClient creates a new The Odds API client
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey, sport, regions string, markets []string, logger *logrus.Logger) *OddsAPIClient {
	return &OddsAPIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		sport:      sport,
		regions:    regions,
		markets:    markets,
		logger:     logger.WithField("source", oddsAPISource),
	}
}

// Name returns the name of the data source
func (c *OddsAPIClient) Name() string {
	return oddsAPISource
}

// Events retrieves events commencing in [from, to)
func (c *OddsAPIClient) Events(ctx context.Context, from, to time.Time) ([]Event, error) {
	q := url.Values{
		"apiKey":           {c.apiKey},
		"dateFormat":       {"iso"},
		"commenceTimeFrom": {from.UTC().Format(oddsAPITimeLayout)},
		"commenceTimeTo":   {to.UTC().Format(oddsAPITimeLayout)},
	}
	endpoint := fmt.Sprintf("%s/sports/%s/events?%s", c.baseURL, c.sport, q.Encode())

	var events []Event
	if err := c.getJSON(ctx, endpoint, "failed to fetch events", &events); err != nil {
		return nil, err
	}

	filtered := events[:0]
	for _, e := range events {
		if !e.CommenceTime.Before(from) && e.CommenceTime.Before(to) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// EventOdds retrieves the configured prop markets for one event in decimal odds
func (c *OddsAPIClient) EventOdds(ctx context.Context, eventID string) (*EventOdds, error) {
	q := url.Values{
		"apiKey":     {c.apiKey},
		"regions":    {c.regions},
		"markets":    {strings.Join(c.markets, ",")},
		"dateFormat": {"iso"},
		"oddsFormat": {"decimal"},
	}
	endpoint := fmt.Sprintf("%s/sports/%s/events/%s/odds?%s", c.baseURL, c.sport, url.PathEscape(eventID), q.Encode())

	var odds EventOdds
	if err := c.getJSON(ctx, endpoint, "failed to fetch event odds", &odds); err != nil {
		return nil, err
	}
	return &odds, nil
}

func (c *OddsAPIClient) getJSON(ctx context.Context, endpoint, failMsg string, out interface{}) error {
	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return NewDataSourceError(oddsAPISource, ErrCodeNetworkError, failMsg, err)
	}
	defer resp.Body.Close()

	if remaining := resp.Header.Get("x-requests-remaining"); remaining != "" {
		c.logger.WithField("requests_remaining", remaining).Debug("Odds API quota")
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(oddsAPISource, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(oddsAPISource, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}
