// Package app assembles the services shared by the command binaries.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/database"
	"github.com/yourusername/nfl-bets/internal/datasource"
	"github.com/yourusername/nfl-bets/internal/logger"
	"github.com/yourusername/nfl-bets/internal/ml"
	"github.com/yourusername/nfl-bets/internal/probability"
	"github.com/yourusername/nfl-bets/internal/repository"
	"github.com/yourusername/nfl-bets/internal/service"
	"github.com/yourusername/nfl-bets/internal/stats"
	"github.com/yourusername/nfl-bets/internal/value"
)

// Components holds the wired services of one process
type Components struct {
	Config        *config.Config
	Logger        *logrus.Logger
	DB            *database.DB
	Repos         *repository.Repositories
	Players       *service.PlayerService
	Probabilities *service.ProbabilityService
	// Jobs is nil when the stats or odds API key is missing.
	Jobs *service.JobService
}

// LoadConfig reads path, overlays AWS Secrets Manager values when
// AWS_SECRETS_ENABLED is set and validates the result.
func LoadConfig(ctx context.Context, path string) (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Build opens storage and wires the player, probability and job services.
func Build(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Components, error) {
	c := &Components{Config: cfg, Logger: log}

	if cfg.UsesMemoryStorage() {
		log.Warn("Using in-memory storage; data is lost on exit")
		c.Repos = repository.NewMemoryRepositories()
	} else {
		db, err := database.Initialize(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repos, err := repository.NewRepositories(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		c.DB, c.Repos = db, repos
	}

	c.Players = service.NewPlayerService(c.Repos.Player)
	c.Probabilities = NewProbabilityService(cfg, c.Repos, log)

	jobs, err := NewJobService(cfg, c.Repos, log)
	if err != nil {
		log.WithError(err).Warn("Daily pipeline disabled")
	} else {
		c.Jobs = jobs
	}

	return c, nil
}

// Close releases the database pool
func (c *Components) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
}

// NewSelector builds the distribution selector from the engine thresholds
func NewSelector(cfg config.EngineConfig) probability.Selector {
	return probability.Selector{
		MinSampleSize:   cfg.MinSampleSize,
		CountMaxCV:      cfg.Selector.CountMaxCV,
		LowRateMean:     cfg.Selector.LowRateMean,
		NormalMinSample: cfg.Selector.NormalMinSample,
		NormalMaxCV:     cfg.Selector.NormalMaxCV,
		HighCV:          cfg.Selector.HighCV,
		NegBinMinSample: cfg.Selector.NegBinMinSample,
		DefaultNBSample: cfg.Selector.DefaultNBSample,
	}
}

// NewProbabilityService wires the engine and value evaluator over repos
func NewProbabilityService(cfg *config.Config, repos *repository.Repositories, log *logrus.Logger) *service.ProbabilityService {
	return service.NewProbabilityService(
		repos.Prop,
		repos.RollingStats,
		probability.NewEngine(NewSelector(cfg.Engine)),
		value.NewEvaluator(cfg.Value),
		cfg.Engine.MatchThreshold,
		time.Duration(cfg.Engine.NameCacheTTLSeconds)*time.Second,
		logger.NewPredictionLogger(log),
	)
}

// NewJobService wires the collectors and rolling stats service into the daily pipeline
func NewJobService(cfg *config.Config, repos *repository.Repositories, log *logrus.Logger) (*service.JobService, error) {
	factory := datasource.NewFactory(cfg.DataSources, log)
	statsSource, err := factory.NewStatsSource()
	if err != nil {
		return nil, err
	}
	oddsSource, err := factory.NewOddsSource()
	if err != nil {
		return nil, err
	}

	popular, err := service.LoadPopularPlayers(cfg.DataSources.PopularPlayersFile)
	if err != nil {
		return nil, err
	}

	seasonStart, err := cfg.Engine.SeasonStartTime()
	if err != nil {
		return nil, err
	}

	validator := service.NewDataValidator(log)
	ingestion := service.NewStatsIngestionService(statsSource, repos.Player, repos.GameStat, popular, validator, log)
	collector := service.NewPropsCollector(oddsSource, repos.Prop, popular, validator, service.PropsCollectorConfig{
		Bookmaker:      cfg.DataSources.OddsAPI.Bookmaker,
		EventDelay:     time.Duration(cfg.DataSources.OddsAPI.EventDelayMillis) * time.Millisecond,
		MatchThreshold: cfg.Engine.MatchThreshold,
	}, log)
	rolling := service.NewRollingStatsService(
		repos.GameStat,
		repos.RollingStats,
		stats.NewAggregator(cfg.Engine.WindowGames, cfg.Engine.DecayFactor),
		log,
	)

	return service.NewJobService(
		service.NewSeasonCalendar(seasonStart, cfg.Engine.RegularSeasonWeeks),
		ingestion,
		collector,
		rolling,
		logger.NewJobLogger(log),
	), nil
}

// NewClassifier loads the prediction service, using an S3 loader when
// either artifact lives in S3.
func NewClassifier(ctx context.Context, cfg config.ClassifierConfig, log *logrus.Logger) *ml.Service {
	predictionLog := logger.NewPredictionLogger(log)

	loader := ml.NewLoader(nil)
	if ml.IsS3Path(cfg.ModelPath) || ml.IsS3Path(cfg.DatasetPath) {
		s3Loader, err := ml.NewS3Loader(ctx, cfg.Region)
		if err != nil {
			log.WithError(err).Error("Failed to create S3 loader")
		} else {
			loader = s3Loader
		}
	}
	return ml.LoadService(ctx, cfg, loader, predictionLog)
}
