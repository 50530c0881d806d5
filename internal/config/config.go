// Package config handles configuration loading for coinview.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	Resolver  ResolverConfig  `mapstructure:"resolver"  yaml:"resolver"`
	Series    SeriesConfig    `mapstructure:"series"    yaml:"series"`
	News      NewsConfig      `mapstructure:"news"      yaml:"news"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Assets    []AssetConfig   `mapstructure:"assets"    yaml:"assets"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host              string   `mapstructure:"host"                yaml:"host"`
	Port              int      `mapstructure:"port"                yaml:"port"`
	CORSOrigins       []string `mapstructure:"cors_origins"        yaml:"cors_origins"`
	StreamIntervalSec int      `mapstructure:"stream_interval_sec" yaml:"stream_interval_sec"` // seconds between quote pushes
}

// Addr returns the host:port pair the server binds to.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// StreamInterval returns the WebSocket quote push interval.
func (a APIConfig) StreamInterval() time.Duration {
	return time.Duration(a.StreamIntervalSec) * time.Second
}

// ProvidersConfig holds upstream data provider settings.
type ProvidersConfig struct {
	AlphaVantage AlphaVantageConfig `mapstructure:"alphavantage" yaml:"alphavantage"`
}

// AlphaVantageConfig holds the Alpha Vantage credential.
type AlphaVantageConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// ResolverConfig holds quote resolution settings.
type ResolverConfig struct {
	QuoteTimeoutSec int `mapstructure:"quote_timeout_sec" yaml:"quote_timeout_sec"` // per-stage budget, seconds
	StaleTailHours  int `mapstructure:"stale_tail_hours"  yaml:"stale_tail_hours"`  // oldest usable historical close
}

// QuoteTimeout returns the per-stage quote resolution budget.
func (r ResolverConfig) QuoteTimeout() time.Duration {
	return time.Duration(r.QuoteTimeoutSec) * time.Second
}

// StaleTailMax returns the oldest age at which a historical close may
// still serve as a current price.
func (r ResolverConfig) StaleTailMax() time.Duration {
	return time.Duration(r.StaleTailHours) * time.Hour
}

// SeriesConfig holds candle series fetch settings.
type SeriesConfig struct {
	Attempts  int `mapstructure:"attempts"   yaml:"attempts"`
	BackoffMS int `mapstructure:"backoff_ms" yaml:"backoff_ms"` // pause between attempts
}

// Backoff returns the pause between series fetch attempts.
func (s SeriesConfig) Backoff() time.Duration {
	return time.Duration(s.BackoffMS) * time.Millisecond
}

// NewsConfig holds RSS news settings.
type NewsConfig struct {
	CacheTTL    int `mapstructure:"cache_ttl"    yaml:"cache_ttl"` // seconds
	MaxArticles int `mapstructure:"max_articles" yaml:"max_articles"`
}

// TTL returns the news cache lifetime.
func (n NewsConfig) TTL() time.Duration {
	return time.Duration(n.CacheTTL) * time.Second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// AssetConfig is one catalog entry. When the assets list is present in
// the config file it replaces the built-in asset set entirely.
type AssetConfig struct {
	Symbol string `mapstructure:"symbol" yaml:"symbol"`
	Name   string `mapstructure:"name"   yaml:"name"`
	Pair   string `mapstructure:"pair"   yaml:"pair"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.coinview/config.yaml (home directory)
//  3. /etc/coinview/config.yaml (system)
//
// Environment variables override config file values.
// Format: COINVIEW_<SECTION>_<KEY>, e.g., COINVIEW_API_PORT
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".coinview"))
	v.AddConfigPath("/etc/coinview")

	// Environment variable settings
	v.SetEnvPrefix("COINVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, run on defaults plus env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override sensitive values from environment
	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("COINVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.stream_interval_sec", 30)

	// Resolver defaults
	v.SetDefault("resolver.quote_timeout_sec", 10)
	v.SetDefault("resolver.stale_tail_hours", 24)

	// Series defaults
	v.SetDefault("series.attempts", 2)
	v.SetDefault("series.backoff_ms", 500)

	// News defaults
	v.SetDefault("news.cache_ttl", 600) // 10 minutes
	v.SetDefault("news.max_articles", 50)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment
// variables. The bare ALPHAVANTAGE_API_KEY form is accepted alongside the
// prefixed one because that is the variable the upstream service
// documents.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("COINVIEW_PROVIDERS_ALPHAVANTAGE_API_KEY"); key != "" {
		cfg.Providers.AlphaVantage.APIKey = key
	}
	if key := os.Getenv("ALPHAVANTAGE_API_KEY"); key != "" && cfg.Providers.AlphaVantage.APIKey == "" {
		cfg.Providers.AlphaVantage.APIKey = key
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
