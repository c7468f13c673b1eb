package models

import (
	"time"

	"github.com/google/uuid"
)

// JobRun summarizes one execution of the daily data pipeline
type JobRun struct {
	ID             uuid.UUID `json:"id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	InSeason       bool      `json:"in_season"`
	Season         int       `json:"season,omitempty"`
	Week           int       `json:"week,omitempty"`
	StatsProcessed int       `json:"stats_processed"`
	StatsSkipped   int       `json:"stats_skipped"`
	PropsCollected int       `json:"props_collected"`
	RollingUpdated int       `json:"rolling_updated"`
	Errors         []string  `json:"errors,omitempty"`
}

// Succeeded reports whether the run finished without step errors
func (r *JobRun) Succeeded() bool {
	return len(r.Errors) == 0
}
