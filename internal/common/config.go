// Package common provides shared utilities for Clarity
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Clarity
type Config struct {
	Environment string        `toml:"environment"`
	DefaultUser string        `toml:"default_user"` // single-tenant fallback user id
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Market      MarketConfig  `toml:"market"`
	Hubs        HubsConfig    `toml:"hubs"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration.
// An empty Address selects the in-memory storage manager.
type StorageConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	RiskData RiskDataConfig `toml:"riskdata"`
}

// RiskDataConfig holds the historical risk-metrics service configuration
type RiskDataConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	Period    string `toml:"period"` // lookback window passed to the service (e.g. "1y")
}

// GetTimeout parses and returns the timeout duration
func (c *RiskDataConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 3 * time.Second
	}
	return d
}

// MarketConfig holds the market assumptions used by the hub aggregators.
// These are placeholder constants until a live market-data feed is wired in;
// keeping them here lets a real quote source replace them without touching
// the aggregation code.
type MarketConfig struct {
	SPYPrice                float64 `toml:"spy_price"`                 // static benchmark quote
	AssumedSPYReturnPct     float64 `toml:"assumed_spy_return_pct"`    // assumed annual SPY return, percent
	GrowthRate              float64 `toml:"growth_rate"`               // annual portfolio growth, fraction
	ProjectionDividendYield float64 `toml:"projection_dividend_yield"` // assumed yield in projections, fraction
	ContributionRate        float64 `toml:"contribution_rate"`         // annual contribution as fraction of portfolio value

	// Fallback risk metrics used when the risk-metrics service is unavailable
	FallbackBeta           float64 `toml:"fallback_beta"`
	FallbackVolatilityPct  float64 `toml:"fallback_volatility_pct"`
	FallbackSharpeRatio    float64 `toml:"fallback_sharpe_ratio"`
	FallbackMaxDrawdownPct float64 `toml:"fallback_max_drawdown_pct"`
}

// HubsConfig controls hub cache freshness and background refresh.
type HubsConfig struct {
	CacheTTL        string `toml:"cache_ttl"`        // cached snapshots younger than this are served as-is
	RefreshInterval string `toml:"refresh_interval"` // background recompute interval, "0" disables
}

// GetCacheTTL parses and returns the cache TTL duration
func (c *HubsConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// GetRefreshInterval parses and returns the background refresh interval.
// Returns 0 when refresh is disabled.
func (c *HubsConfig) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		DefaultUser: "local",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Storage: StorageConfig{
			Namespace: "clarity",
			Database:  "clarity",
		},
		Clients: ClientsConfig{
			RiskData: RiskDataConfig{
				BaseURL:   "https://api.riskdata.local",
				RateLimit: 5,
				Timeout:   "3s",
				Period:    "1y",
			},
		},
		Market: MarketConfig{
			SPYPrice:                580.25,
			AssumedSPYReturnPct:     10.0,
			GrowthRate:              0.07,
			ProjectionDividendYield: 0.03,
			ContributionRate:        0.10,
			FallbackBeta:            1.0,
			FallbackVolatilityPct:   15.5,
			FallbackSharpeRatio:     1.2,
			FallbackMaxDrawdownPct:  12.3,
		},
		Hubs: HubsConfig{
			CacheTTL:        "5m",
			RefreshInterval: "15m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CLARITY_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("CLARITY_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("CLARITY_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("CLARITY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("CLARITY_DB_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if ns := os.Getenv("CLARITY_DB_NAMESPACE"); ns != "" {
		config.Storage.Namespace = ns
	}
	if db := os.Getenv("CLARITY_DB_DATABASE"); db != "" {
		config.Storage.Database = db
	}
	if user := os.Getenv("CLARITY_DB_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("CLARITY_DB_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}

	if v := os.Getenv("CLARITY_RISKDATA_URL"); v != "" {
		config.Clients.RiskData.BaseURL = v
	}
	if v := os.Getenv("CLARITY_RISKDATA_API_KEY"); v != "" {
		config.Clients.RiskData.APIKey = v
	}

	if v := os.Getenv("CLARITY_DEFAULT_USER"); v != "" {
		config.DefaultUser = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
