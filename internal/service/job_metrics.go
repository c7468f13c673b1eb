package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nfl_bets",
		Name:      "job_runs_total",
		Help:      "Daily pipeline runs by outcome",
	}, []string{"status"})

	jobRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nfl_bets",
		Name:      "job_records_total",
		Help:      "Records handled by the daily pipeline",
	}, []string{"step", "result"})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nfl_bets",
		Name:      "job_step_duration_seconds",
		Help:      "Duration of daily pipeline steps",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"step"})
)

// JobMetrics tracks statistics about one pipeline run
type JobMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	StatsProcessed   int
	StatsSkipped     int
	PropsCollected   int
	PropsUnmatched   int
	RollingUpdated   int
	ValidationErrors int
	Errors           int
}

// NewJobMetrics creates a new metrics tracker
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{
		StartTime: time.Now(),
	}
}

// RecordStat counts a weekly stat row as stored or skipped
func (m *JobMetrics) RecordStat(stored bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored {
		m.StatsProcessed++
		jobRecordsTotal.WithLabelValues("stats", "stored").Inc()
		return
	}
	m.StatsSkipped++
	jobRecordsTotal.WithLabelValues("stats", "skipped").Inc()
}

// RecordProps adds collected and unmatched prop counts
func (m *JobMetrics) RecordProps(collected, unmatched int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PropsCollected += collected
	m.PropsUnmatched += unmatched
	jobRecordsTotal.WithLabelValues("props", "stored").Add(float64(collected))
	jobRecordsTotal.WithLabelValues("props", "unmatched").Add(float64(unmatched))
}

// RecordRolling adds updated rolling summaries
func (m *JobMetrics) RecordRolling(updated int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RollingUpdated += updated
	jobRecordsTotal.WithLabelValues("rolling", "stored").Add(float64(updated))
}

// RecordValidationError increments validation error count
func (m *JobMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
	jobRecordsTotal.WithLabelValues("validation", "rejected").Inc()
}

// RecordError increments error count
func (m *JobMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// ObserveStep records a step duration
func (m *JobMetrics) ObserveStep(step string, d time.Duration) {
	jobDuration.WithLabelValues(step).Observe(d.Seconds())
}

// Finish stamps the run duration and counts the run outcome
func (m *JobMetrics) Finish(succeeded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
	status := "success"
	if !succeeded {
		status = "failure"
	}
	jobRunsTotal.WithLabelValues(status).Inc()
}

// String returns a formatted string representation of metrics
func (m *JobMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"JobMetrics{Stats=%d, Skipped=%d, Props=%d, Unmatched=%d, Rolling=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.StatsProcessed,
		m.StatsSkipped,
		m.PropsCollected,
		m.PropsUnmatched,
		m.RollingUpdated,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}

func (m *JobMetrics) stepCounts(step string) (processed, failed int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch Step(step) {
	case StepStats:
		return m.StatsProcessed, m.StatsSkipped
	case StepProps:
		return m.PropsCollected, m.PropsUnmatched
	case StepRolling:
		return m.RollingUpdated, 0
	default:
		return 0, m.Errors
	}
}
