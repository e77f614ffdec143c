package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Amazon    MarketplaceConfig `mapstructure:"amazon"`
	Flipkart  MarketplaceConfig `mapstructure:"flipkart"`
	RapidAPI  RapidAPIConfig    `mapstructure:"rapidapi"`
	Fetch     FetchConfig       `mapstructure:"fetch"`
	Search    SearchConfig      `mapstructure:"search"`
	Cache     CacheConfig       `mapstructure:"cache"`
	RateLimit RateLimitConfig   `mapstructure:"ratelimit"`
	Log       LogConfig         `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MarketplaceConfig holds the endpoint of one RapidAPI marketplace service
type MarketplaceConfig struct {
	BaseURL   string  `mapstructure:"base_url"`
	Host      string  `mapstructure:"host"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second
}

// RapidAPIConfig holds the credentials shared by both marketplaces
type RapidAPIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// FetchConfig bounds each marketplace call
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchConfig holds defaults for unset search options
type SearchConfig struct {
	DefaultLimit    int    `mapstructure:"default_limit"`
	DefaultCurrency string `mapstructure:"default_currency"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// IsDevelopment reports whether error details may be exposed to clients
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ecocompare/")

	// Environment variable settings, e.g. ECOCOMPARE_RAPIDAPI_API_KEY
	v.SetEnvPrefix("ECOCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment win.
func loadEnvFile() error {
	err := gotenv.Load(".env")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Marketplace defaults
	v.SetDefault("amazon.base_url", "https://real-time-amazon-data.p.rapidapi.com")
	v.SetDefault("amazon.host", "real-time-amazon-data.p.rapidapi.com")
	v.SetDefault("amazon.rate_limit", 5)
	v.SetDefault("flipkart.base_url", "https://real-time-flipkart-api.p.rapidapi.com")
	v.SetDefault("flipkart.host", "real-time-flipkart-api.p.rapidapi.com")
	v.SetDefault("flipkart.rate_limit", 5)
	v.SetDefault("rapidapi.api_key", "")

	// Aggregation defaults
	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("search.default_limit", 20)
	v.SetDefault("search.default_currency", "INR")

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/ecocompare.log")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.RapidAPI.APIKey == "" && config.Server.Environment != "test" {
		return fmt.Errorf("RapidAPI key is required (set ECOCOMPARE_RAPIDAPI_API_KEY)")
	}

	if config.Amazon.BaseURL == "" || config.Flipkart.BaseURL == "" {
		return fmt.Errorf("marketplace base URLs must not be empty")
	}

	if config.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got: %s", config.Fetch.Timeout)
	}

	if config.Search.DefaultLimit < 1 || config.Search.DefaultLimit > 100 {
		return fmt.Errorf("default limit must be between 1 and 100, got: %d", config.Search.DefaultLimit)
	}

	currency := strings.ToUpper(config.Search.DefaultCurrency)
	if currency != "USD" && currency != "INR" {
		return fmt.Errorf("default currency must be USD or INR, got: %s", config.Search.DefaultCurrency)
	}

	if config.Cache.Enabled && config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive when cache is enabled")
	}

	if config.RateLimit.PerIP < 1 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
