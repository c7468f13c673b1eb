// Package main provides the AWS Lambda entry point for classifier predictions.
package main

import (
	"context"
	"log"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/yourusername/nfl-bets/internal/app"
	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/datasource"
	"github.com/yourusername/nfl-bets/internal/lambda"
	"github.com/yourusername/nfl-bets/internal/logger"
	"github.com/yourusername/nfl-bets/internal/tracing"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadWithDefaults(config.PathFromEnv("config/config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	if err := tracing.Initialize(tracing.FromConfig(cfg.Tracing), appLog); err != nil {
		appLog.WithError(err).Warn("Tracing disabled")
	}

	// Loaded once per container; a failed load answers every invocation as unavailable.
	classifier := app.NewClassifier(ctx, cfg.Classifier, appLog)

	var client lambda.Doer
	if cfg.Lambda.BettingLinesURL != "" {
		client = datasource.NewRateLimitedHTTPClient("betting_lines", datasource.HTTPClientConfigFrom(cfg.DataSources.HTTP), appLog)
	}

	handler := lambda.NewHandler(classifier, client, cfg.Lambda.BettingLinesURL, appLog)
	awslambda.Start(handler.Handle)
}
