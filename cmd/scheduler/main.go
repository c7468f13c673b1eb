// Package main provides the entry point for the daily pipeline scheduler.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/app"
	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/datasource"
	"github.com/yourusername/nfl-bets/internal/logger"
	"github.com/yourusername/nfl-bets/internal/metrics"
	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig(ctx, config.PathFromEnv("config/config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	var runner scheduler.Runner
	if cfg.Jobs.TriggerURL != "" {
		httpCfg := datasource.HTTPClientConfigFrom(cfg.DataSources.HTTP)
		httpCfg.Timeout = 2 * time.Hour
		httpCfg.MaxRetries = 0
		client := datasource.NewRateLimitedHTTPClient("jobs_trigger", httpCfg, appLog)
		defer client.Close()

		runner = scheduler.NewRemoteRunner(client, cfg.Jobs.TriggerURL, cfg.Jobs.APIKey, appLog)
		appLog.WithField("trigger_url", cfg.Jobs.TriggerURL).Info("Scheduling remote pipeline runs")
	} else {
		components, err := app.Build(ctx, cfg, appLog)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to build services")
		}
		defer components.Close()
		if components.Jobs == nil {
			appLog.Fatal("Pipeline unavailable: sportsdata and odds API keys are required")
		}
		components.Jobs.OnComplete(func(run *models.JobRun) {
			if run.Succeeded() {
				metrics.RecordJobSuccess(run.FinishedAt)
			}
		})
		runner = components.Jobs
	}

	if cfg.Metrics.Enabled {
		if err := metrics.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, appLog).Start(ctx); err != nil {
			appLog.WithError(err).Fatal("Failed to start metrics server")
		}
	}

	sched := scheduler.NewScheduler(runner, appLog)
	if err := sched.ScheduleDaily(cfg.Jobs.Schedule); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule pipeline")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	appLog.WithFields(logrus.Fields{
		"schedule": cfg.Jobs.Schedule,
		"next_run": sched.GetNextRun().Format(time.RFC3339),
	}).Info("Scheduler running")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
	sched.Stop()
	appLog.Info("Scheduler shut down successfully")
}
