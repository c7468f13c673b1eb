package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GameStat is one player's box score line for one game
type GameStat struct {
	ID               uuid.UUID          `db:"id" json:"id"`
	PlayerExternalID int64              `db:"player_external_id" json:"player_external_id" validate:"required,gt=0"`
	PlayerName       string             `db:"player_name" json:"player_name" validate:"required"`
	Team             string             `db:"team" json:"team"`
	Opponent         string             `db:"opponent" json:"opponent"`
	Position         string             `db:"position" json:"position"`
	PositionCategory string             `db:"position_category" json:"position_category"`
	HomeOrAway       string             `db:"home_or_away" json:"home_or_away"`
	GameDate         time.Time          `db:"game_date" json:"game_date"`
	Season           int                `db:"season" json:"season" validate:"required,gt=2000"`
	Week             int                `db:"week" json:"week" validate:"required,gte=1,lte=22"`
	Activated        bool               `db:"activated" json:"activated"`
	Played           bool               `db:"played" json:"played"`
	Stats            map[string]float64 `db:"stats" json:"stats"`
	CreatedAt        time.Time          `db:"created_at" json:"created_at"`
}

// Stat returns the named stat value or 0 when the game has no entry for it
func (g *GameStat) Stat(name string) float64 {
	if g.Stats == nil {
		return 0
	}
	return g.Stats[name]
}

// SeasonWeek returns the "{season}_week_{week}" label used to group weekly loads
func (g *GameStat) SeasonWeek() string {
	return SeasonWeekLabel(g.Season, g.Week)
}

// SeasonWeekLabel formats a season and week as "{season}_week_{week}"
func SeasonWeekLabel(season, week int) string {
	return fmt.Sprintf("%d_week_%d", season, week)
}

// Before orders games chronologically by season then week
func (g *GameStat) Before(other *GameStat) bool {
	if g.Season != other.Season {
		return g.Season < other.Season
	}
	if g.Week != other.Week {
		return g.Week < other.Week
	}
	return g.GameDate.Before(other.GameDate)
}
