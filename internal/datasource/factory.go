package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/config"
)

// Factory creates the stats and odds clients from configuration
type Factory struct {
	logger *logrus.Logger
	config config.DataSourcesConfig
}

// NewFactory creates a new data source factory
func NewFactory(cfg config.DataSourcesConfig, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

func (f *Factory) httpClient(name string) *RateLimitedHTTPClient {
	return NewRateLimitedHTTPClient(name, HTTPClientConfigFrom(f.config.HTTP), f.logger)
}

// NewStatsSource creates the sportsdata.io client
func (f *Factory) NewStatsSource() (StatsSource, error) {
	cfg := f.config.SportsData
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sportsdata API key is required")
	}
	return NewSportsDataClient(f.httpClient(sportsDataSource), cfg.BaseURL, cfg.APIKey, f.logger), nil
}

// NewOddsSource creates The Odds API client
func (f *Factory) NewOddsSource() (OddsSource, error) {
	cfg := f.config.OddsAPI
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("odds API key is required")
	}
	return NewOddsAPIClient(f.httpClient(oddsAPISource), cfg.BaseURL, cfg.APIKey, cfg.Sport, cfg.Regions, cfg.Markets, f.logger), nil
}
