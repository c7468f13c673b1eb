package models

// Tracked per-game stat columns.
const (
	StatPassingYards         = "passing_yards"
	StatPassingTouchdowns    = "passing_touchdowns"
	StatPassingInterceptions = "passing_interceptions"
	StatPassingAttempts      = "passing_attempts"
	StatPassingCompletions   = "passing_completions"
	StatRushingYards         = "rushing_yards"
	StatRushingTouchdowns    = "rushing_touchdowns"
	StatRushingAttempts      = "rushing_attempts"
	StatRushingLong          = "rushing_long"
	StatReceivingYards       = "receiving_yards"
	StatReceivingTouchdowns  = "receiving_touchdowns"
	StatReceptions           = "receptions"
	StatTargets              = "targets"
	StatReceivingLong        = "receiving_long"
)

// Extra columns stored with a game but not aggregated.
const (
	StatFumbles           = "fumbles"
	StatFumblesLost       = "fumbles_lost"
	StatTwoPointPassing   = "two_point_conversion_passes"
	StatTwoPointRushing   = "two_point_conversion_runs"
	StatTwoPointReceiving = "two_point_conversion_receptions"
)

// TrackedStats lists the stats the rolling aggregator summarizes, in a stable order.
var TrackedStats = []string{
	StatPassingYards,
	StatPassingTouchdowns,
	StatPassingInterceptions,
	StatPassingAttempts,
	StatPassingCompletions,
	StatRushingYards,
	StatRushingTouchdowns,
	StatRushingAttempts,
	StatRushingLong,
	StatReceivingYards,
	StatReceivingTouchdowns,
	StatReceptions,
	StatTargets,
	StatReceivingLong,
}

// IsTrackedStat reports whether name is one of TrackedStats
func IsTrackedStat(name string) bool {
	for _, s := range TrackedStats {
		if s == name {
			return true
		}
	}
	return false
}
