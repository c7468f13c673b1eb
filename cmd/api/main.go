// Package main provides the entry point for the HTTP API.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/api"
	"github.com/yourusername/nfl-bets/internal/app"
	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/health"
	"github.com/yourusername/nfl-bets/internal/logger"
	"github.com/yourusername/nfl-bets/internal/metrics"
	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig(ctx, config.PathFromEnv("config/config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"storage":     cfg.App.Storage,
		"version":     Version,
	}).Info("NFL bets API starting")

	metrics.InitRegistry()

	tracingCfg := tracing.FromConfig(cfg.Tracing)
	if err := tracing.Initialize(tracingCfg, appLog); err != nil {
		appLog.WithError(err).Warn("Tracing disabled")
		tracingCfg.Enabled = false
	}

	components, err := app.Build(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build services")
	}
	defer components.Close()

	classifier := app.NewClassifier(ctx, cfg.Classifier, appLog)

	hub := api.NewHub(appLog, cfg.Server.AllowedOrigins)
	go hub.Run(ctx)
	components.Probabilities.OnOpportunities(hub.BroadcastOpportunities)

	serverCfg := api.Config{
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JobsAPIKey:     cfg.Jobs.APIKey,
		Players:        components.Players,
		Predictor:      classifier,
		Probabilities:  components.Probabilities,
		Hub:            hub,
		Logger:         appLog,
		APIMiddleware:  []func(http.Handler) http.Handler{tracing.Middleware(tracingCfg)},
	}
	if components.Jobs != nil {
		jobs := components.Jobs
		jobs.OnComplete(func(run *models.JobRun) {
			if run.Succeeded() {
				metrics.RecordJobSuccess(run.FinishedAt)
			}
			components.Probabilities.InvalidateNames()
			if _, err := components.Probabilities.Opportunities(context.WithoutCancel(ctx)); err != nil {
				appLog.WithError(err).Warn("Failed to evaluate opportunities after job run")
			}
		})
		serverCfg.Jobs = jobs
	}
	server := api.NewServer(serverCfg)

	healthCfg := health.Config{
		ServiceName: "nfl-bets-api",
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Server.HealthPort,
		Logger:      appLog,
		Classifier:  classifier,
	}
	if components.DB != nil {
		healthCfg.DB = components.DB
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	if cfg.Metrics.Enabled {
		if err := metrics.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, appLog).Start(ctx); err != nil {
			appLog.WithError(err).Fatal("Failed to start metrics server")
		}
	}

	if err := server.Start(ctx); err != nil {
		appLog.WithError(err).Error("API server stopped with error")
	}

	healthServer.SetReady(false)
	appLog.Info("NFL bets API shut down successfully")
}
