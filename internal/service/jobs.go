package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/nfl-bets/internal/logger"
	"github.com/yourusername/nfl-bets/internal/models"
)

// ErrJobRunning is returned when a pipeline run is already in progress
var ErrJobRunning = errors.New("job already running")

// ErrUnknownStep is returned by RunStep for names other than the Step constants
var ErrUnknownStep = errors.New("unknown job step")

// Step names a single stage of the daily pipeline
type Step string

const (
	StepStats   Step = "collect"
	StepProps   Step = "props"
	StepRolling Step = "rolling"
	StepAll     Step = "all"
)

// ParseStep validates a step name
func ParseStep(name string) (Step, error) {
	switch s := Step(name); s {
	case StepStats, StepProps, StepRolling, StepAll:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStep, name)
	}
}

// JobService runs the daily data pipeline. Runs are serialized; a trigger
// that arrives while a run is in progress gets ErrJobRunning.
type JobService struct {
	calendar SeasonCalendar
	stats    *StatsIngestionService
	props    *PropsCollector
	rolling  *RollingStatsService
	logger   *logger.JobLogger
	now      func() time.Time

	running    sync.Mutex
	mu         sync.RWMutex
	lastRun    *models.JobRun
	onComplete []func(*models.JobRun)
}

// NewJobService creates a new job service
func NewJobService(
	calendar SeasonCalendar,
	stats *StatsIngestionService,
	props *PropsCollector,
	rolling *RollingStatsService,
	log *logger.JobLogger,
) *JobService {
	return &JobService{
		calendar: calendar,
		stats:    stats,
		props:    props,
		rolling:  rolling,
		logger:   log,
		now:      time.Now,
	}
}

// OnComplete registers fn to be called after every finished run
func (j *JobService) OnComplete(fn func(*models.JobRun)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.onComplete = append(j.onComplete, fn)
}

// LastRun returns the most recent finished run, or nil
func (j *JobService) LastRun() *models.JobRun {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.lastRun
}

// RunDaily runs the full pipeline: week check, weekly stats, today's props
// and the rolling stats update. Step failures are recorded on the run and do
// not stop later steps.
func (j *JobService) RunDaily(ctx context.Context) (*models.JobRun, error) {
	return j.RunStep(ctx, StepAll)
}

// RunStep runs a single pipeline step, or all of them for StepAll
func (j *JobService) RunStep(ctx context.Context, step Step) (*models.JobRun, error) {
	if _, err := ParseStep(string(step)); err != nil {
		return nil, err
	}
	if !j.running.TryLock() {
		return nil, ErrJobRunning
	}
	defer j.running.Unlock()

	run := &models.JobRun{
		ID:        uuid.New(),
		StartedAt: j.now().UTC(),
	}
	runID := run.ID.String()
	metrics := NewJobMetrics()

	season, week, inSeason := j.calendar.WeekOf(run.StartedAt)
	run.InSeason = inSeason
	if inSeason {
		run.Season, run.Week = season, week
	}

	if step == StepAll || step == StepStats {
		if inSeason {
			j.execute(ctx, run, metrics, string(StepStats), func() error {
				return j.stats.CollectWeek(ctx, season, week, metrics)
			})
		} else {
			j.logger.LogJobSkipped(runID, string(StepStats), "outside regular season")
		}
	}

	if step == StepAll || step == StepProps {
		j.execute(ctx, run, metrics, string(StepProps), func() error {
			return j.props.CollectToday(ctx, metrics)
		})
	}

	if step == StepAll || step == StepRolling {
		j.execute(ctx, run, metrics, string(StepRolling), func() error {
			updated, err := j.rolling.UpdateAll(ctx)
			metrics.RecordRolling(updated)
			return err
		})
	}

	metrics.Finish(run.Succeeded())
	run.FinishedAt = j.now().UTC()
	run.StatsProcessed = metrics.StatsProcessed
	run.StatsSkipped = metrics.StatsSkipped
	run.PropsCollected = metrics.PropsCollected
	run.RollingUpdated = metrics.RollingUpdated

	j.mu.Lock()
	j.lastRun = run
	hooks := j.onComplete
	j.mu.Unlock()
	for _, fn := range hooks {
		fn(run)
	}

	return run, nil
}

func (j *JobService) execute(ctx context.Context, run *models.JobRun, metrics *JobMetrics, name string, fn func() error) {
	runID := run.ID.String()
	if err := ctx.Err(); err != nil {
		run.Errors = append(run.Errors, fmt.Sprintf("%s: %v", name, err))
		j.logger.LogJobFailure(runID, name, err)
		return
	}

	j.logger.LogJobStart(runID, name, run.Season, run.Week)
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	metrics.ObserveStep(name, elapsed)

	if err != nil {
		metrics.RecordError()
		run.Errors = append(run.Errors, fmt.Sprintf("%s: %v", name, err))
		j.logger.LogJobFailure(runID, name, err)
		return
	}

	processed, failed := metrics.stepCounts(name)
	j.logger.LogJobComplete(runID, name, processed, failed, elapsed)
}
