package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is built once at start-up by Load() and handed by value to the constructors
// that need it. Nothing in the application mutates it afterwards.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	SECRET_KEY=change-me
//	MARKETDATA_API_KEY=demo
//	CHART_OUTPUT_DIR=static/stock_data_charts
//	SYMBOLS_FILE=stocks.csv
//	POSTGRES_ENABLED=false
type Config struct {
	Server     ServerConfig     // HTTP server configuration
	Log        LogConfig        // Logger level and output format
	MarketData MarketDataConfig // Upstream market-data API settings
	Chart      ChartConfig      // Rendered chart output
	Symbols    SymbolsConfig    // Selectable ticker list
	Postgres   PostgresConfig   // Optional render log storage
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string // The TCP port the HTTP server will listen on (e.g., "8080")
	SecretKey          string // Signs flash-message cookies
	RateLimitPerMinute int    // Per-client request allowance
	RequestTimeout     time.Duration
}

// LogConfig selects the zerolog level and writer.
type LogConfig struct {
	Level  string
	Pretty bool
}

// MarketDataConfig describes the upstream time-series API.
//
// Fields:
//   - BaseURL: query endpoint (Alpha Vantage compatible).
//   - APIKey: credential sent as the apikey query parameter.
//   - Timeout: HTTP client timeout for a single call.
//   - RequestsPerMinute: client-side throttle shared by all requests.
type MarketDataConfig struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerMinute int
}

// ChartConfig controls where and how large charts are rendered.
type ChartConfig struct {
	OutputDir string
	URLPrefix string
	WidthIn   float64
	HeightIn  float64
}

// SymbolsConfig points at the two-column CSV of selectable tickers.
type SymbolsConfig struct {
	File string
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Enabled: when false the render log is a no-op and no connection is opened.
//   - Host, Port, User, Password, DBName, SSLMode: connection parameters.
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// Load reads configuration from defaults, an optional .env file and the environment.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// The returned error lists every missing required key.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("REQUEST_TIMEOUT", "30s")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	v.SetDefault("MARKETDATA_BASE_URL", "https://www.alphavantage.co/query")
	v.SetDefault("MARKETDATA_API_KEY", "")
	v.SetDefault("MARKETDATA_TIMEOUT", "30s")
	v.SetDefault("MARKETDATA_REQUESTS_PER_MINUTE", 5)

	v.SetDefault("CHART_OUTPUT_DIR", "static/stock_data_charts")
	v.SetDefault("CHART_URL_PREFIX", "/static/charts")
	v.SetDefault("CHART_WIDTH_IN", 10.0)
	v.SetDefault("CHART_HEIGHT_IN", 6.0)

	v.SetDefault("SYMBOLS_FILE", "stocks.csv")

	v.SetDefault("POSTGRES_ENABLED", false)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "stockplot")
	v.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore error if no .env

	v.AutomaticEnv()

	cfg := Config{
		Server: ServerConfig{
			Port:               v.GetString("SERVER_PORT"),
			SecretKey:          v.GetString("SECRET_KEY"),
			RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
			RequestTimeout:     v.GetDuration("REQUEST_TIMEOUT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
		MarketData: MarketDataConfig{
			BaseURL:           v.GetString("MARKETDATA_BASE_URL"),
			APIKey:            v.GetString("MARKETDATA_API_KEY"),
			Timeout:           v.GetDuration("MARKETDATA_TIMEOUT"),
			RequestsPerMinute: v.GetInt("MARKETDATA_REQUESTS_PER_MINUTE"),
		},
		Chart: ChartConfig{
			OutputDir: v.GetString("CHART_OUTPUT_DIR"),
			URLPrefix: v.GetString("CHART_URL_PREFIX"),
			WidthIn:   v.GetFloat64("CHART_WIDTH_IN"),
			HeightIn:  v.GetFloat64("CHART_HEIGHT_IN"),
		},
		Symbols: SymbolsConfig{
			File: v.GetString("SYMBOLS_FILE"),
		},
		Postgres: PostgresConfig{
			Enabled:  v.GetBool("POSTGRES_ENABLED"),
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetInt("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			DBName:   v.GetString("POSTGRES_DB"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
	}

	cfg.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate ensures required values are present.
//
// Behavior:
//   - Checks each critical field of cfg.
//   - Collects missing ones in a slice.
//   - Returns a single error naming all of them.
//
// Postgres fields are only checked when Postgres is enabled.
func Validate(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Server.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if cfg.MarketData.BaseURL == "" {
		missing = append(missing, "MARKETDATA_BASE_URL")
	}
	if cfg.MarketData.APIKey == "" {
		missing = append(missing, "MARKETDATA_API_KEY")
	}
	if cfg.Chart.OutputDir == "" {
		missing = append(missing, "CHART_OUTPUT_DIR")
	}
	if cfg.Postgres.Enabled {
		if cfg.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if cfg.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if cfg.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if cfg.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}
