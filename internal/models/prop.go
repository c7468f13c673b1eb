package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Outcome names as returned by the sportsbook feed
const (
	OutcomeOver  = "Over"
	OutcomeUnder = "Under"
	OutcomeYes   = "Yes"
	OutcomeNo    = "No"
)

// PropLine is one priced outcome of a player prop market at a bookmaker
type PropLine struct {
	ID           uuid.UUID           `db:"id" json:"id"`
	EventID      string              `db:"event_id" json:"event_id" validate:"required"`
	HomeTeam     string              `db:"home_team" json:"home_team"`
	AwayTeam     string              `db:"away_team" json:"away_team"`
	CommenceTime time.Time           `db:"commence_time" json:"commence_time"`
	PlayerName   string              `db:"player_name" json:"player_name" validate:"required"`
	MarketKey    string              `db:"market_key" json:"market_key" validate:"required"`
	Outcome      string              `db:"outcome" json:"outcome" validate:"required"`
	Price        decimal.Decimal     `db:"price" json:"price"`
	Point        decimal.NullDecimal `db:"point" json:"point"`
	Bookmaker    string              `db:"bookmaker" json:"bookmaker"`
	LastUpdate   time.Time           `db:"last_update" json:"last_update"`
	PropDate     string              `db:"prop_date" json:"prop_date"`
	CollectedAt  time.Time           `db:"collected_at" json:"collected_at"`
}

// PointValue returns the line as a float and whether one is set
func (p *PropLine) PointValue() (float64, bool) {
	if !p.Point.Valid {
		return 0, false
	}
	return p.Point.Decimal.InexactFloat64(), true
}

// PriceValue returns the decimal odds as a float
func (p *PropLine) PriceValue() float64 {
	return p.Price.InexactFloat64()
}
