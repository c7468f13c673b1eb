package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// JobLogger provides dedicated logging for the daily data pipeline.
type JobLogger struct {
	*logrus.Entry
}

// NewJobLogger creates a new job logger.
func NewJobLogger(baseLogger *logrus.Logger) *JobLogger {
	return &JobLogger{
		Entry: baseLogger.WithField("component", "jobs"),
	}
}

// LogJobStart logs the start of a pipeline step.
func (jl *JobLogger) LogJobStart(runID, job string, season, week int) {
	jl.WithFields(logrus.Fields{
		"run_id":     runID,
		"job":        job,
		"season":     season,
		"week":       week,
		"event_type": "start",
	}).Info("Job started")
}

// LogJobComplete logs a finished pipeline step with its record counts.
func (jl *JobLogger) LogJobComplete(runID, job string, processed, failed int, duration time.Duration) {
	jl.WithFields(logrus.Fields{
		"run_id":      runID,
		"job":         job,
		"processed":   processed,
		"failed":      failed,
		"duration_ms": duration.Milliseconds(),
		"event_type":  "complete",
	}).Info("Job completed")
}

// LogJobFailure logs a failed pipeline step.
func (jl *JobLogger) LogJobFailure(runID, job string, err error) {
	jl.WithFields(logrus.Fields{
		"run_id":     runID,
		"job":        job,
		"event_type": "failure",
	}).WithError(err).Error("Job failed")
}

// LogJobSkipped logs a pipeline step skipped for a reason such as off-season.
func (jl *JobLogger) LogJobSkipped(runID, job, reason string) {
	jl.WithFields(logrus.Fields{
		"run_id":     runID,
		"job":        job,
		"reason":     reason,
		"event_type": "skipped",
	}).Info("Job skipped")
}
