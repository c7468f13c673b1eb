package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides (NFL_BETS_APP_LOG_LEVEL etc.)
const EnvPrefix = "NFL_BETS"

const defaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables.
// Environment variable placeholders in the YAML file (${VAR_NAME}) are expanded first.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	setDefaults(v)

	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration like Load but tolerates a missing file,
// falling back to defaults and environment variables.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// PathFromEnv returns the config path from NFL_BETS_CONFIG_PATH, or fallback.
func PathFromEnv(fallback string) string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_PATH"); p != "" {
		return p
	}
	return fallback
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "nfl-bets")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.storage", "postgres")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "nfl_bets")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 30)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("classifier.model_path", "models/classifier.json")
	v.SetDefault("classifier.dataset_path", "models/dataset.arff")
	v.SetDefault("classifier.region", "us-east-1")
	v.SetDefault("classifier.cache_ttl_seconds", 300)
	v.SetDefault("classifier.cache_max_size", 10000)

	v.SetDefault("data_sources.sportsdata.base_url", "https://api.sportsdata.io/v3/nfl/stats/json")
	v.SetDefault("data_sources.sportsdata.api_key", "")
	v.SetDefault("data_sources.odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("data_sources.odds_api.api_key", "")
	v.SetDefault("data_sources.odds_api.sport", "americanfootball_nfl")
	v.SetDefault("data_sources.odds_api.regions", "us")
	v.SetDefault("data_sources.odds_api.bookmaker", "fanduel")
	v.SetDefault("data_sources.odds_api.markets", DefaultPropMarkets)
	v.SetDefault("data_sources.odds_api.event_delay_millis", 500)
	v.SetDefault("data_sources.http.timeout_seconds", 30)
	v.SetDefault("data_sources.http.retry_attempts", 3)
	v.SetDefault("data_sources.http.requests_per_second", 2)
	v.SetDefault("data_sources.http.burst", 2)
	v.SetDefault("data_sources.http.breaker_failure_threshold", 5)
	v.SetDefault("data_sources.http.breaker_timeout_seconds", 60)
	v.SetDefault("data_sources.popular_players_file", "config/popular_offensive_players.txt")

	v.SetDefault("engine.window_games", 18)
	v.SetDefault("engine.decay_factor", 0.9)
	v.SetDefault("engine.match_threshold", 85)
	v.SetDefault("engine.min_sample_size", 3)
	v.SetDefault("engine.name_cache_ttl_seconds", 600)
	v.SetDefault("engine.season_start", "2025-09-03")
	v.SetDefault("engine.regular_season_weeks", 18)
	v.SetDefault("engine.selector.count_max_cv", 1.2)
	v.SetDefault("engine.selector.low_rate_mean", 0.5)
	v.SetDefault("engine.selector.normal_min_sample", 10)
	v.SetDefault("engine.selector.normal_max_cv", 0.8)
	v.SetDefault("engine.selector.high_cv", 1.5)
	v.SetDefault("engine.selector.negbin_min_sample", 8)
	v.SetDefault("engine.selector.default_nb_sample", 10)

	v.SetDefault("value.min_edge", 0.02)
	v.SetDefault("value.min_probability", 0.0)
	v.SetDefault("value.max_results", 50)
	v.SetDefault("value.remove_vig", true)

	v.SetDefault("jobs.schedule", "0 11 * * *")
	v.SetDefault("jobs.api_key", "")
	v.SetDefault("jobs.trigger_url", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "nfl-bets")
	v.SetDefault("tracing.daemon_address", "127.0.0.1:2000")
	v.SetDefault("tracing.service_version", "")

	v.SetDefault("lambda.betting_lines_url", "")
}

// DefaultPropMarkets are the player prop markets requested from the odds feed.
var DefaultPropMarkets = []string{
	"player_pass_yds",
	"player_pass_tds",
	"player_pass_attempts",
	"player_pass_completions",
	"player_pass_interceptions",
	"player_rush_yds",
	"player_rush_tds",
	"player_rush_attempts",
	"player_rush_longest",
	"player_reception_yds",
	"player_reception_tds",
	"player_receptions",
	"player_reception_longest",
	"player_rush_reception_yds",
	"player_pass_rush_reception_yds",
	"player_rush_reception_tds",
	"player_tds",
	"player_anytime_td",
}
