// Package config provides configuration management for the NFL prop betting backend.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Classifier  ClassifierConfig  `mapstructure:"classifier" validate:"required"`
	DataSources DataSourcesConfig `mapstructure:"data_sources" validate:"required"`
	Engine      EngineConfig      `mapstructure:"engine" validate:"required"`
	Value       ValueConfig       `mapstructure:"value" validate:"required"`
	Jobs        JobsConfig        `mapstructure:"jobs" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	Lambda      LambdaConfig      `mapstructure:"lambda"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	// Storage selects the repository backend. "memory" skips PostgreSQL entirely.
	Storage string `mapstructure:"storage" validate:"required,oneof=postgres memory"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host                   string `mapstructure:"host" validate:"required"`
	Port                   int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name                   string `mapstructure:"name" validate:"required"`
	User                   string `mapstructure:"user" validate:"required"`
	Password               string `mapstructure:"password"`
	SSLMode                string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections         int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections     int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port                int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort          int      `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins      []string `mapstructure:"allowed_origins"`
}

// ClassifierConfig describes where the pre-trained model and its dataset
// structure are loaded from. Paths may be local files or s3://bucket/key URIs.
type ClassifierConfig struct {
	ModelPath       string `mapstructure:"model_path" validate:"required"`
	DatasetPath     string `mapstructure:"dataset_path" validate:"required"`
	Region          string `mapstructure:"region"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize    int    `mapstructure:"cache_max_size" validate:"gte=0"`
}

// DataSourcesConfig holds the external data provider settings
type DataSourcesConfig struct {
	SportsData SportsDataConfig `mapstructure:"sportsdata" validate:"required"`
	OddsAPI    OddsAPIConfig    `mapstructure:"odds_api" validate:"required"`
	HTTP       HTTPClientConfig `mapstructure:"http" validate:"required"`
	// PopularPlayersFile lists the tracked player names, one per line.
	PopularPlayersFile string `mapstructure:"popular_players_file" validate:"required"`
}

// SportsDataConfig represents the sportsdata.io stats feed configuration
type SportsDataConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
}

// OddsAPIConfig represents The Odds API configuration
type OddsAPIConfig struct {
	BaseURL   string   `mapstructure:"base_url" validate:"required,url"`
	APIKey    string   `mapstructure:"api_key"`
	Sport     string   `mapstructure:"sport" validate:"required"`
	Regions   string   `mapstructure:"regions" validate:"required"`
	Bookmaker string   `mapstructure:"bookmaker" validate:"required,bookmaker"`
	Markets   []string `mapstructure:"markets" validate:"required,min=1,markets"`
	// EventDelayMillis is the pause between per-event odds requests.
	EventDelayMillis int `mapstructure:"event_delay_millis" validate:"gte=0"`
}

// HTTPClientConfig configures the shared outbound HTTP client
type HTTPClientConfig struct {
	TimeoutSeconds          int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts           int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSecond       float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst                   int     `mapstructure:"burst" validate:"required,gt=0"`
	BreakerFailureThreshold int     `mapstructure:"breaker_failure_threshold" validate:"required,gt=0"`
	BreakerTimeoutSeconds   int     `mapstructure:"breaker_timeout_seconds" validate:"required,gt=0"`
}

// EngineConfig tunes the rolling aggregator, matcher and distribution selector
type EngineConfig struct {
	WindowGames         int            `mapstructure:"window_games" validate:"required,gt=0"`
	DecayFactor         float64        `mapstructure:"decay_factor" validate:"required,gt=0,lte=1"`
	MatchThreshold      float64        `mapstructure:"match_threshold" validate:"required,gt=0,lte=100"`
	MinSampleSize       int            `mapstructure:"min_sample_size" validate:"required,gt=0"`
	NameCacheTTLSeconds int            `mapstructure:"name_cache_ttl_seconds" validate:"gte=0"`
	SeasonStart         string         `mapstructure:"season_start" validate:"required,datetime=2006-01-02"`
	RegularSeasonWeeks  int            `mapstructure:"regular_season_weeks" validate:"required,gt=0"`
	Selector            SelectorConfig `mapstructure:"selector" validate:"required"`
}

// SelectorConfig holds the distribution selection thresholds
type SelectorConfig struct {
	CountMaxCV      float64 `mapstructure:"count_max_cv" validate:"required,gt=0"`
	LowRateMean     float64 `mapstructure:"low_rate_mean" validate:"required,gt=0"`
	NormalMinSample int     `mapstructure:"normal_min_sample" validate:"required,gt=0"`
	NormalMaxCV     float64 `mapstructure:"normal_max_cv" validate:"required,gt=0"`
	HighCV          float64 `mapstructure:"high_cv" validate:"required,gt=0"`
	NegBinMinSample int     `mapstructure:"negbin_min_sample" validate:"required,gt=0"`
	DefaultNBSample int     `mapstructure:"default_nb_sample" validate:"required,gt=0"`
}

// ValueConfig controls value opportunity filtering
type ValueConfig struct {
	MinEdge        float64 `mapstructure:"min_edge" validate:"gte=0,lt=1"`
	MinProbability float64 `mapstructure:"min_probability" validate:"gte=0,lte=1"`
	MaxResults     int     `mapstructure:"max_results" validate:"gte=0"`
	RemoveVig      bool    `mapstructure:"remove_vig"`
}

// JobsConfig represents the daily pipeline configuration
type JobsConfig struct {
	Schedule string `mapstructure:"schedule" validate:"required,cronexpr"`
	APIKey   string `mapstructure:"api_key"`
	// TriggerURL is used by the scheduler to run jobs on a remote API instance.
	TriggerURL string `mapstructure:"trigger_url" validate:"omitempty,url"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// TracingConfig configures AWS X-Ray
type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	DaemonAddress  string `mapstructure:"daemon_address"`
	ServiceVersion string `mapstructure:"service_version"`
}

// LambdaConfig configures the serverless prediction handler
type LambdaConfig struct {
	// BettingLinesURL is fetched before every prediction. Empty skips the fetch.
	BettingLinesURL string `mapstructure:"betting_lines_url" validate:"omitempty,url"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesMemoryStorage reports whether repositories should be kept in memory
func (c *Config) UsesMemoryStorage() bool {
	return c.App.Storage == "memory"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN returns a PostgreSQL connection string for this database
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
}

// SeasonStartTime parses the configured season start date as UTC midnight
func (e EngineConfig) SeasonStartTime() (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", e.SeasonStart, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid season_start %q: %w", e.SeasonStart, err)
	}
	return t, nil
}

// Timeout returns the outbound HTTP timeout
func (h HTTPClientConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}
