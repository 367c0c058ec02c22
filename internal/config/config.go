package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	API        APIConfig        `yaml:"api" mapstructure:"api"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the analysis API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// APIConfig configures the client used to reach the analysis API.
type APIConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	// Fallback selects when the mock result replaces a failed call:
	// "all", "transient" or "never".
	Fallback string `yaml:"fallback" mapstructure:"fallback"`
}

// StoreConfig configures where analyses are kept.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnalysisConfig tunes the backend scoring.
type AnalysisConfig struct {
	PopMaxDensity            float64 `yaml:"pop_max_density" mapstructure:"pop_max_density"`
	NeutralDemand            int     `yaml:"neutral_demand" mapstructure:"neutral_demand"`
	NeutralCompetition       int     `yaml:"neutral_competition" mapstructure:"neutral_competition"`
	CompetitionErrorFallback int     `yaml:"competition_error_fallback" mapstructure:"competition_error_fallback"`
	MaxPOIs                  int     `yaml:"max_pois" mapstructure:"max_pois"`
}

// MonitoringConfig configures the stored-analysis health checks.
type MonitoringConfig struct {
	LookbackHours     int     `yaml:"lookback_hours" mapstructure:"lookback_hours"`
	CheckIntervalSecs int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	MockRateThreshold float64 `yaml:"mock_rate_threshold" mapstructure:"mock_rate_threshold"`
	// FeasibleRateFloor alerts when fewer analyses than this share clear the cutoff.
	FeasibleRateFloor float64 `yaml:"feasible_rate_floor" mapstructure:"feasible_rate_floor"`
	WebhookURL        string  `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// DefaultAnalysisConfig returns the scoring defaults.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		PopMaxDensity:            5000,
		NeutralDemand:            60,
		NeutralCompetition:       45,
		CompetitionErrorFallback: 55,
		MaxPOIs:                  50,
	}
}

// Load reads configuration from .env, config.yaml and the environment.
func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FEASIBILITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout_secs", 20)
	v.SetDefault("api.max_attempts", 1)
	v.SetDefault("api.rate_limit", 10.0)
	v.SetDefault("api.fallback", "all")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "feasibility.db")

	def := DefaultAnalysisConfig()
	v.SetDefault("analysis.pop_max_density", def.PopMaxDensity)
	v.SetDefault("analysis.neutral_demand", def.NeutralDemand)
	v.SetDefault("analysis.neutral_competition", def.NeutralCompetition)
	v.SetDefault("analysis.competition_error_fallback", def.CompetitionErrorFallback)
	v.SetDefault("analysis.max_pois", def.MaxPOIs)

	v.SetDefault("monitoring.lookback_hours", 24)
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.mock_rate_threshold", 0.5)
	v.SetDefault("monitoring.feasible_rate_floor", 0.2)
	v.SetDefault("monitoring.webhook_url", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the commands cannot act on.
func (c *Config) Validate() error {
	switch c.API.Fallback {
	case "all", "transient", "never":
	default:
		return eris.Errorf("config: unknown api.fallback %q", c.API.Fallback)
	}
	switch c.Store.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return eris.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}
	if c.Analysis.PopMaxDensity <= 0 {
		return eris.New("config: analysis.pop_max_density must be positive")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
