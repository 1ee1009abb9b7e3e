// Package config handles configuration loading for stockstrip.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	EDGAR    EDGARConfig    `mapstructure:"edgar"    yaml:"edgar"`
	Market   MarketConfig   `mapstructure:"market"   yaml:"market"`
	Scratch  ScratchConfig  `mapstructure:"scratch"  yaml:"scratch"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// EDGARConfig holds SEC EDGAR client settings.
type EDGARConfig struct {
	UserAgent  string `mapstructure:"user_agent"  yaml:"user_agent"` // SEC requires "name email"
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`
	TickersURL string `mapstructure:"tickers_url" yaml:"tickers_url"`
	RateLimit  int    `mapstructure:"rate_limit"  yaml:"rate_limit"` // requests per second
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	Taxonomy   string `mapstructure:"taxonomy"    yaml:"taxonomy"`
	DataDir    string `mapstructure:"data_dir"    yaml:"data_dir"` // read facts from disk instead of HTTP
}

// MarketConfig holds market-data client settings.
type MarketConfig struct {
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	DataDir    string `mapstructure:"data_dir"    yaml:"data_dir"`
}

// ScratchConfig selects and configures the per-request scratch store.
type ScratchConfig struct {
	Backend       string `mapstructure:"backend"        yaml:"backend"` // "memory" or "redis"
	TTLSec        int    `mapstructure:"ttl_sec"        yaml:"ttl_sec"`
	RedisAddr     string `mapstructure:"redis_addr"     yaml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"       yaml:"redis_db"`
}

// AnalysisConfig holds analysis engine settings.
type AnalysisConfig struct {
	ConcurrentFetches int    `mapstructure:"concurrent_fetches" yaml:"concurrent_fetches"`
	DefaultHorizon    string `mapstructure:"default_horizon"    yaml:"default_horizon"` // "1y", "5y", "6mo"
	DefaultReport     string `mapstructure:"default_report"     yaml:"default_report"`  // "10-K" or "10-Q"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stockstrip/config.yaml (home directory)
//  3. /etc/stockstrip/config.yaml (system)
//
// Environment variables override config file values.
// Format: STOCKSTRIP_<SECTION>_<KEY>, e.g., STOCKSTRIP_EDGAR_USER_AGENT
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stockstrip"))
	v.AddConfigPath("/etc/stockstrip")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("STOCKSTRIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// EDGAR defaults
	v.SetDefault("edgar.user_agent", "stockstrip/1.0 (github.com/seenimoa/stockstrip)")
	v.SetDefault("edgar.base_url", "https://data.sec.gov")
	v.SetDefault("edgar.tickers_url", "https://www.sec.gov/files/company_tickers.json")
	v.SetDefault("edgar.rate_limit", 10) // SEC fair-access limit
	v.SetDefault("edgar.timeout_sec", 30)
	v.SetDefault("edgar.taxonomy", "us-gaap")

	// Market defaults
	v.SetDefault("market.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("market.timeout_sec", 15)

	// Scratch defaults
	v.SetDefault("scratch.backend", "memory")
	v.SetDefault("scratch.ttl_sec", 600)
	v.SetDefault("scratch.redis_addr", "localhost:6379")
	v.SetDefault("scratch.redis_db", 0)

	// Analysis defaults
	v.SetDefault("analysis.concurrent_fetches", 5)
	v.SetDefault("analysis.default_horizon", "5y")
	v.SetDefault("analysis.default_report", "10-K")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Scratch.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("scratch.backend: unknown backend %q (want memory or redis)", c.Scratch.Backend)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q (want text or json)", c.Logging.Format)
	}
	if c.EDGAR.RateLimit < 1 {
		return fmt.Errorf("edgar.rate_limit must be at least 1, got %d", c.EDGAR.RateLimit)
	}
	if c.Analysis.ConcurrentFetches < 1 {
		return fmt.Errorf("analysis.concurrent_fetches must be at least 1, got %d", c.Analysis.ConcurrentFetches)
	}
	return nil
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if ua := os.Getenv("STOCKSTRIP_EDGAR_USER_AGENT"); ua != "" {
		cfg.EDGAR.UserAgent = ua
	}
	if pw := os.Getenv("STOCKSTRIP_SCRATCH_REDIS_PASSWORD"); pw != "" {
		cfg.Scratch.RedisPassword = pw
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
