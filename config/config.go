package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// External service configurations
	FMP    FMPConfig
	Alpaca AlpacaConfig

	// Scoring configuration
	Scoring ScoringConfig

	// Screener configuration
	Screener ScreenerConfig

	// Universe configuration
	Universe UniverseConfig

	// HTTP configuration
	HTTP HTTPConfig

	// Production toggles JSON logging
	Production bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// FMPConfig holds Financial Modeling Prep API configuration
type FMPConfig struct {
	APIKey string
}

// AlpacaConfig holds Alpaca market data configuration
type AlpacaConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// ScoringConfig holds the component weights used by the aggregator.
// Weights must sum to 1.0; anything else is a startup error, never a
// per-ticker one.
type ScoringConfig struct {
	WeightFundamental float64
	WeightTechnical   float64
	WeightCatalyst    float64
	WeightSentiment   float64
}

// ScreenerConfig holds screening run configuration
type ScreenerConfig struct {
	QualifyingThreshold float64 // minimum final score to enter the qualified set
	TopPicksCount       int     // number of top candidates handed off for research
	MaxConcurrent       int     // bounded worker pool size
	TickerTimeoutSec    int     // per-ticker fetch+score timeout
	HistoryDays         int     // daily bars fetched for technical indicators
}

// UniverseConfig holds default universe resolution settings
type UniverseConfig struct {
	Mode         string
	MaxStocks    int
	Sectors      []string
	MinMarketCap float64
	ConfigPath   string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr               string
	CORSAllowedOrigins string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		FMP: FMPConfig{
			APIKey: os.Getenv("FMP_API_KEY"),
		},
		Alpaca: AlpacaConfig{
			APIKey:    os.Getenv("ALPACA_API_KEY"),
			APISecret: os.Getenv("ALPACA_API_SECRET"),
			BaseURL:   os.Getenv("ALPACA_DATA_BASE_URL"), // empty uses the client default
		},
		Scoring: ScoringConfig{
			WeightFundamental: getEnvFloat("WEIGHT_FUNDAMENTAL", 0.30),
			WeightTechnical:   getEnvFloat("WEIGHT_TECHNICAL", 0.25),
			WeightCatalyst:    getEnvFloat("WEIGHT_CATALYST", 0.30),
			WeightSentiment:   getEnvFloat("WEIGHT_SENTIMENT", 0.15),
		},
		Screener: ScreenerConfig{
			QualifyingThreshold: getEnvFloatUnbounded("SCREENER_QUALIFYING_THRESHOLD", 60),
			TopPicksCount:       getEnvInt("SCREENER_TOP_PICKS_COUNT", 15),
			MaxConcurrent:       getEnvInt("SCREENER_MAX_CONCURRENT", 4),
			TickerTimeoutSec:    getEnvInt("SCREENER_TICKER_TIMEOUT_SEC", 30),
			HistoryDays:         getEnvInt("SCREENER_HISTORY_DAYS", 365),
		},
		Universe: UniverseConfig{
			Mode:         getEnvString("UNIVERSE_MODE", "sp500"),
			MaxStocks:    getEnvInt("UNIVERSE_MAX_STOCKS", 500),
			Sectors:      getEnvList("UNIVERSE_SECTORS"),
			MinMarketCap: getEnvFloatUnbounded("UNIVERSE_MIN_MARKET_CAP", 0),
			ConfigPath:   os.Getenv("UNIVERSE_CONFIG_PATH"),
		},
		HTTP: HTTPConfig{
			Addr:               getEnvString("HTTP_ADDR", ":8080"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
		},
		Production: getEnvBool("PRODUCTION", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	weightSum := c.Scoring.WeightFundamental + c.Scoring.WeightTechnical +
		c.Scoring.WeightCatalyst + c.Scoring.WeightSentiment
	if weightSum < 1.0-1e-6 || weightSum > 1.0+1e-6 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f (fundamental=%.2f, technical=%.2f, catalyst=%.2f, sentiment=%.2f)",
			weightSum, c.Scoring.WeightFundamental, c.Scoring.WeightTechnical,
			c.Scoring.WeightCatalyst, c.Scoring.WeightSentiment)
	}

	if c.Screener.TopPicksCount <= 0 {
		return fmt.Errorf("SCREENER_TOP_PICKS_COUNT must be positive, got %d", c.Screener.TopPicksCount)
	}
	if c.Screener.MaxConcurrent <= 0 {
		return fmt.Errorf("SCREENER_MAX_CONCURRENT must be positive, got %d", c.Screener.MaxConcurrent)
	}
	if c.Screener.TickerTimeoutSec <= 0 {
		return fmt.Errorf("SCREENER_TICKER_TIMEOUT_SEC must be positive, got %d", c.Screener.TickerTimeoutSec)
	}
	if c.Screener.HistoryDays < 200 {
		// The 200-day moving average needs at least that much history.
		return fmt.Errorf("SCREENER_HISTORY_DAYS must be at least 200, got %d", c.Screener.HistoryDays)
	}

	return nil
}

// HasDatabase returns true if database configuration is available
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// HasFMP returns true if Financial Modeling Prep configuration is available
func (c *Config) HasFMP() bool {
	return c.FMP.APIKey != ""
}

// HasAlpaca returns true if Alpaca configuration is available
func (c *Config) HasAlpaca() bool {
	return c.Alpaca.APIKey != "" && c.Alpaca.APISecret != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil && parsed >= 0 && parsed <= 1 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatUnbounded(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			WeightFundamental: 0.30,
			WeightTechnical:   0.25,
			WeightCatalyst:    0.30,
			WeightSentiment:   0.15,
		},
		Screener: ScreenerConfig{
			QualifyingThreshold: 60,
			TopPicksCount:       15,
			MaxConcurrent:       4,
			TickerTimeoutSec:    30,
			HistoryDays:         365,
		},
		Universe: UniverseConfig{
			Mode:      "explicit",
			MaxStocks: 50,
		},
		HTTP: HTTPConfig{
			Addr:               ":8080",
			CORSAllowedOrigins: "*",
		},
	}
}
