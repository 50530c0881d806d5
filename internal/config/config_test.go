package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearKeyEnv unsets every env var that feeds the Alpha Vantage key.
func clearKeyEnv() {
	os.Unsetenv("COINVIEW_PROVIDERS_ALPHAVANTAGE_API_KEY")
	os.Unsetenv("ALPHAVANTAGE_API_KEY")
}

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	clearKeyEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// API defaults
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("API.CORSOrigins: got %v", cfg.API.CORSOrigins)
	}
	if cfg.API.StreamIntervalSec != 30 {
		t.Errorf("API.StreamIntervalSec: got %d, want 30", cfg.API.StreamIntervalSec)
	}

	// Resolver defaults
	if cfg.Resolver.QuoteTimeoutSec != 10 {
		t.Errorf("Resolver.QuoteTimeoutSec: got %d, want 10", cfg.Resolver.QuoteTimeoutSec)
	}
	if cfg.Resolver.StaleTailHours != 24 {
		t.Errorf("Resolver.StaleTailHours: got %d, want 24", cfg.Resolver.StaleTailHours)
	}

	// Series defaults
	if cfg.Series.Attempts != 2 {
		t.Errorf("Series.Attempts: got %d, want 2", cfg.Series.Attempts)
	}
	if cfg.Series.BackoffMS != 500 {
		t.Errorf("Series.BackoffMS: got %d, want 500", cfg.Series.BackoffMS)
	}

	// News defaults
	if cfg.News.CacheTTL != 600 {
		t.Errorf("News.CacheTTL: got %d, want 600", cfg.News.CacheTTL)
	}
	if cfg.News.MaxArticles != 50 {
		t.Errorf("News.MaxArticles: got %d, want 50", cfg.News.MaxArticles)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}

	// No assets override by default; the built-in catalog applies.
	if len(cfg.Assets) != 0 {
		t.Errorf("Assets: got %d entries, want none", len(cfg.Assets))
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Config{
		API:      APIConfig{Host: "127.0.0.1", Port: 9000, StreamIntervalSec: 15},
		Resolver: ResolverConfig{QuoteTimeoutSec: 10, StaleTailHours: 24},
		Series:   SeriesConfig{BackoffMS: 500},
		News:     NewsConfig{CacheTTL: 600},
	}

	if got := cfg.API.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:9000", got)
	}
	if got := cfg.API.StreamInterval(); got != 15*time.Second {
		t.Errorf("StreamInterval() = %v, want 15s", got)
	}
	if got := cfg.Resolver.QuoteTimeout(); got != 10*time.Second {
		t.Errorf("QuoteTimeout() = %v, want 10s", got)
	}
	if got := cfg.Resolver.StaleTailMax(); got != 24*time.Hour {
		t.Errorf("StaleTailMax() = %v, want 24h", got)
	}
	if got := cfg.Series.Backoff(); got != 500*time.Millisecond {
		t.Errorf("Backoff() = %v, want 500ms", got)
	}
	if got := cfg.News.TTL(); got != 10*time.Minute {
		t.Errorf("TTL() = %v, want 10m", got)
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
api:
  port: 9090
  stream_interval_sec: 10
providers:
  alphavantage:
    api_key: "file_key_1234567890"
resolver:
  quote_timeout_sec: 5
  stale_tail_hours: 48
series:
  attempts: 3
  backoff_ms: 100
news:
  cache_ttl: 120
  max_articles: 10
logging:
  level: "debug"
  format: "json"
assets:
  - symbol: "BTC"
    name: "Bitcoin"
  - symbol: "PEPE"
    name: "Pepe"
    pair: "PEPE-USD"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	clearKeyEnv()

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if cfg.API.StreamIntervalSec != 10 {
		t.Errorf("API.StreamIntervalSec: got %d, want 10", cfg.API.StreamIntervalSec)
	}
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host should keep its default, got %q", cfg.API.Host)
	}
	if cfg.Providers.AlphaVantage.APIKey != "file_key_1234567890" {
		t.Errorf("AlphaVantage.APIKey: got %q", cfg.Providers.AlphaVantage.APIKey)
	}
	if cfg.Resolver.QuoteTimeoutSec != 5 || cfg.Resolver.StaleTailHours != 48 {
		t.Errorf("Resolver: got %+v", cfg.Resolver)
	}
	if cfg.Series.Attempts != 3 || cfg.Series.BackoffMS != 100 {
		t.Errorf("Series: got %+v", cfg.Series)
	}
	if cfg.News.CacheTTL != 120 || cfg.News.MaxArticles != 10 {
		t.Errorf("News: got %+v", cfg.News)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}
	if len(cfg.Assets) != 2 {
		t.Fatalf("Assets: got %d entries, want 2", len(cfg.Assets))
	}
	if cfg.Assets[1].Symbol != "PEPE" || cfg.Assets[1].Pair != "PEPE-USD" {
		t.Errorf("Assets[1]: got %+v", cfg.Assets[1])
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

// ── overrideFromEnv ──

func TestOverrideFromEnvPrefixed(t *testing.T) {
	os.Setenv("COINVIEW_PROVIDERS_ALPHAVANTAGE_API_KEY", "prefixed_env_key_123")
	defer clearKeyEnv()

	cfg := &Config{}
	cfg.Providers.AlphaVantage.APIKey = "from-config"
	overrideFromEnv(cfg)

	if cfg.Providers.AlphaVantage.APIKey != "prefixed_env_key_123" {
		t.Errorf("APIKey: got %q, want the prefixed env value", cfg.Providers.AlphaVantage.APIKey)
	}
}

func TestOverrideFromEnvBareForm(t *testing.T) {
	clearKeyEnv()
	os.Setenv("ALPHAVANTAGE_API_KEY", "bare_env_key_456")
	defer os.Unsetenv("ALPHAVANTAGE_API_KEY")

	// Bare form fills a missing key.
	cfg := &Config{}
	overrideFromEnv(cfg)
	if cfg.Providers.AlphaVantage.APIKey != "bare_env_key_456" {
		t.Errorf("APIKey: got %q, want the bare env value", cfg.Providers.AlphaVantage.APIKey)
	}

	// But never displaces a configured one.
	cfg = &Config{}
	cfg.Providers.AlphaVantage.APIKey = "from-config"
	overrideFromEnv(cfg)
	if cfg.Providers.AlphaVantage.APIKey != "from-config" {
		t.Errorf("APIKey: got %q, want the config value to win", cfg.Providers.AlphaVantage.APIKey)
	}
}

func TestOverrideFromEnvNoEnvSet(t *testing.T) {
	clearKeyEnv()

	cfg := &Config{}
	cfg.Providers.AlphaVantage.APIKey = "from-config"
	overrideFromEnv(cfg)

	if cfg.Providers.AlphaVantage.APIKey != "from-config" {
		t.Errorf("APIKey should stay as 'from-config' when env is unset, got %q", cfg.Providers.AlphaVantage.APIKey)
	}
}

// ── maskKey ──

func TestMaskKeyShort(t *testing.T) {
	// Keys with 8 or fewer characters are fully masked.
	tests := []struct {
		input string
		want  string
	}{
		{"", "***"},
		{"a", "***"},
		{"abcd", "***"},
		{"12345678", "***"},
	}
	for _, tc := range tests {
		got := maskKey(tc.input)
		if got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMaskKeyLong(t *testing.T) {
	// Keys with more than 8 characters show first 3 + ... + last 3.
	tests := []struct {
		input string
		want  string
	}{
		{"123456789", "123...789"},
		{"AV7DEMO1234567890XYZ", "AV7...XYZ"},
		{"ABCDEFGHIJKLMNOP", "ABC...NOP"},
	}
	for _, tc := range tests {
		got := maskKey(tc.input)
		if got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

// ── CheckAPIKeys / checkKey ──

func TestCheckAPIKeysEmpty(t *testing.T) {
	clearKeyEnv()

	cfg := &Config{}
	statuses := CheckAPIKeys(cfg)

	if len(statuses) != 1 {
		t.Fatalf("CheckAPIKeys: got %d statuses, want 1", len(statuses))
	}
	s := statuses[0]
	if s.Name != "Alpha Vantage API Key" {
		t.Errorf("Name: got %q", s.Name)
	}
	if s.IsSet {
		t.Error("key should not be set")
	}
	if s.Source != KeySourceNone {
		t.Errorf("Source: got %q, want %q", s.Source, KeySourceNone)
	}
}

func TestCheckAPIKeysFromConfig(t *testing.T) {
	clearKeyEnv()

	cfg := &Config{}
	cfg.Providers.AlphaVantage.APIKey = "AV7DEMO1234567890XYZ"
	statuses := CheckAPIKeys(cfg)

	s := statuses[0]
	if !s.IsSet {
		t.Error("key should be set")
	}
	if s.Source != KeySourceConfig {
		t.Errorf("Source: got %q, want %q", s.Source, KeySourceConfig)
	}
	if s.Masked != "AV7...XYZ" {
		t.Errorf("Masked: got %q, want %q", s.Masked, "AV7...XYZ")
	}
}

func TestCheckAPIKeysFromEnv(t *testing.T) {
	clearKeyEnv()
	os.Setenv("ALPHAVANTAGE_API_KEY", "env_key_for_testing_1")
	defer os.Unsetenv("ALPHAVANTAGE_API_KEY")

	cfg := &Config{}
	cfg.Providers.AlphaVantage.APIKey = "env_key_for_testing_1"
	statuses := CheckAPIKeys(cfg)

	if statuses[0].Source != KeySourceEnv {
		t.Errorf("Source: got %q, want %q", statuses[0].Source, KeySourceEnv)
	}
}

func TestCheckKeySourceDetection(t *testing.T) {
	// No env, no value.
	os.Unsetenv("TEST_VAR_A")
	os.Unsetenv("TEST_VAR_B")
	s := checkKey("Test", "", "TEST_VAR_A", "TEST_VAR_B")
	if s.Source != KeySourceNone {
		t.Errorf("empty value: got source %q, want %q", s.Source, KeySourceNone)
	}
	if s.IsSet {
		t.Error("empty value should not be set")
	}

	// Value from config (no env).
	s = checkKey("Test", "config-value-long-enough", "TEST_VAR_A", "TEST_VAR_B")
	if s.Source != KeySourceConfig {
		t.Errorf("config value: got source %q, want %q", s.Source, KeySourceConfig)
	}
	if !s.IsSet {
		t.Error("config value should be set")
	}

	// Any of the listed env vars counts as an env source.
	os.Setenv("TEST_VAR_B", "env-value-long-enough")
	defer os.Unsetenv("TEST_VAR_B")
	s = checkKey("Test", "env-value-long-enough", "TEST_VAR_A", "TEST_VAR_B")
	if s.Source != KeySourceEnv {
		t.Errorf("env value: got source %q, want %q", s.Source, KeySourceEnv)
	}
}

// ── homeDir ──

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	h := homeDir()
	if h == "" {
		t.Error("homeDir() should not return empty string")
	}
}

// ── APIKeySource constants ──

func TestAPIKeySourceConstants(t *testing.T) {
	if string(KeySourceEnv) != "env" {
		t.Errorf("KeySourceEnv: got %q", KeySourceEnv)
	}
	if string(KeySourceConfig) != "config" {
		t.Errorf("KeySourceConfig: got %q", KeySourceConfig)
	}
	if string(KeySourceNone) != "none" {
		t.Errorf("KeySourceNone: got %q", KeySourceNone)
	}
}
