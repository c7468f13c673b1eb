// Package scheduler runs the daily data pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/models"
)

// Runner executes one pipeline run
type Runner interface {
	RunDaily(ctx context.Context) (*models.JobRun, error)
}

// Scheduler manages scheduled pipeline runs
type Scheduler struct {
	cron       *cron.Cron
	runner     Runner
	logger     *logrus.Entry
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
	runTimeout time.Duration
}

// NewScheduler creates a new scheduler evaluating expressions in UTC
func NewScheduler(runner Runner, logger *logrus.Logger) *Scheduler {
	entry := logger.WithField("component", "scheduler")
	cronLogger := cron.PrintfLogger(entry)

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		runner:     runner,
		logger:     entry,
		jobIDs:     make([]cron.EntryID, 0),
		runTimeout: 2 * time.Hour,
	}
}

// ScheduleDaily adds the pipeline run at cronExpression, e.g. "0 11 * * *"
func (s *Scheduler) ScheduleDaily(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, s.runOnce)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled daily pipeline")
	return nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	start := time.Now()
	run, err := s.runner.RunDaily(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled pipeline run failed")
		return
	}

	entry := s.logger.WithFields(logrus.Fields{
		"run_id":          run.ID.String(),
		"in_season":       run.InSeason,
		"stats_processed": run.StatsProcessed,
		"props_collected": run.PropsCollected,
		"rolling_updated": run.RollingUpdated,
		"duration":        time.Since(start).String(),
	})
	if !run.Succeeded() {
		entry.WithField("errors", run.Errors).Warn("Scheduled pipeline finished with errors")
		return
	}
	entry.Info("Scheduled pipeline completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
