package probability

import (
	"strconv"
	"strings"

	"github.com/yourusername/nfl-bets/internal/models"
)

// MarketKind describes how a sportsbook market maps onto rolling stats
type MarketKind int

const (
	MarketSingle MarketKind = iota
	MarketCombinedYards
	MarketCombinedTouchdowns
	MarketAnytimeTouchdown
	// MarketUnsupported covers markets recognized but not modeled, such as first touchdown.
	MarketUnsupported
)

// Market is a sportsbook player prop market
type Market struct {
	Key   string
	Kind  MarketKind
	Stats []string
}

// Binary reports whether the market settles yes/no rather than over/under
func (m Market) Binary() bool {
	return m.Kind == MarketAnytimeTouchdown
}

var touchdownStats = []string{models.StatRushingTouchdowns, models.StatReceivingTouchdowns}

var markets = map[string]Market{
	"player_rush_yds":                {Kind: MarketSingle, Stats: []string{models.StatRushingYards}},
	"player_rush_tds":                {Kind: MarketSingle, Stats: []string{models.StatRushingTouchdowns}},
	"player_rush_attempts":           {Kind: MarketSingle, Stats: []string{models.StatRushingAttempts}},
	"player_rush_longest":            {Kind: MarketSingle, Stats: []string{models.StatRushingLong}},
	"player_pass_yds":                {Kind: MarketSingle, Stats: []string{models.StatPassingYards}},
	"player_pass_tds":                {Kind: MarketSingle, Stats: []string{models.StatPassingTouchdowns}},
	"player_pass_attempts":           {Kind: MarketSingle, Stats: []string{models.StatPassingAttempts}},
	"player_pass_completions":        {Kind: MarketSingle, Stats: []string{models.StatPassingCompletions}},
	"player_pass_interceptions":      {Kind: MarketSingle, Stats: []string{models.StatPassingInterceptions}},
	"player_reception_yds":           {Kind: MarketSingle, Stats: []string{models.StatReceivingYards}},
	"player_reception_tds":           {Kind: MarketSingle, Stats: []string{models.StatReceivingTouchdowns}},
	"player_receptions":              {Kind: MarketSingle, Stats: []string{models.StatReceptions}},
	"player_reception_longest":       {Kind: MarketSingle, Stats: []string{models.StatReceivingLong}},
	"player_rush_reception_yds":      {Kind: MarketCombinedYards, Stats: []string{models.StatRushingYards, models.StatReceivingYards}},
	"player_pass_rush_reception_yds": {Kind: MarketCombinedYards, Stats: []string{models.StatPassingYards, models.StatRushingYards, models.StatReceivingYards}},
	"player_rush_reception_tds":      {Kind: MarketCombinedTouchdowns, Stats: touchdownStats},
	"player_tds":                     {Kind: MarketCombinedTouchdowns, Stats: touchdownStats},
	"player_anytime_td":              {Kind: MarketAnytimeTouchdown, Stats: touchdownStats},
	"player_1st_td":                  {Kind: MarketUnsupported},
	"player_last_td":                 {Kind: MarketUnsupported},
}

// LookupMarket returns the market definition for key
func LookupMarket(key string) (Market, bool) {
	m, ok := markets[key]
	if !ok {
		return Market{}, false
	}
	m.Key = key
	return m, true
}

// SideForOutcome maps a sportsbook outcome name to a Side
func SideForOutcome(outcome string) (Side, bool) {
	switch strings.ToLower(outcome) {
	case "over":
		return Over, true
	case "under":
		return Under, true
	case "yes":
		return Yes, true
	case "no":
		return No, true
	default:
		return "", false
	}
}

// PropName builds the public prop identifier, e.g. player_pass_yds_over_245.5
// or player_anytime_td_yes.
func PropName(marketKey string, side Side, point *float64) string {
	if point == nil {
		return marketKey + "_" + string(side)
	}
	return marketKey + "_" + string(side) + "_" + FormatPoint(*point)
}

// FormatPoint renders a line with at least one decimal place (5 -> "5.0")
func FormatPoint(point float64) string {
	s := strconv.FormatFloat(point, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
