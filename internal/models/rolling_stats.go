package models

import "time"

// StatSummary holds the rolling aggregates for a single stat
type StatSummary struct {
	WeightedMean float64 `json:"weighted_mean"`
	WeightedStd  float64 `json:"weighted_std"`
	Lambda       float64 `json:"lambda"`
	SimpleMean   float64 `json:"simple_mean"`
	SimpleStd    float64 `json:"simple_std"`
	SampleSize   int     `json:"sample_size"`
}

// Variance returns the squared weighted standard deviation
func (s StatSummary) Variance() float64 {
	return s.WeightedStd * s.WeightedStd
}

// RollingStats is the per-player rolling summary over the recent game window
type RollingStats struct {
	PlayerExternalID int64                  `db:"player_external_id" json:"player_external_id"`
	PlayerName       string                 `db:"player_name" json:"player_name"`
	Team             string                 `db:"team" json:"team"`
	Position         string                 `db:"position" json:"position"`
	TotalGames       int                    `db:"total_games" json:"total_games"`
	LastGameDate     time.Time              `db:"last_game_date" json:"last_game_date"`
	Stats            map[string]StatSummary `db:"stats" json:"stats"`
	UpdatedAt        time.Time              `db:"updated_at" json:"updated_at"`
}

// Summary returns the summary for stat and whether it exists
func (r *RollingStats) Summary(stat string) (StatSummary, bool) {
	if r.Stats == nil {
		return StatSummary{}, false
	}
	s, ok := r.Stats[stat]
	return s, ok
}
