package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel    string
	MetricsPort string // empty disables the debug HTTP server

	// Polymarket Gamma API
	GammaBaseURL   string
	APIKey         string
	APITimeout     time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration

	// Caching
	CacheEnabled         bool
	CacheTTL             time.Duration
	ResourceCacheEnabled bool
	ResourceCacheTTL     time.Duration
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		MetricsPort: os.Getenv("POLYMARKET_METRICS_PORT"),

		// Gamma API defaults
		GammaBaseURL:   getEnvOrDefault("POLYMARKET_BASE_URL", "https://gamma-api.polymarket.com"),
		APIKey:         os.Getenv("POLYMARKET_API_KEY"),
		APITimeout:     getDurationOrDefault("POLYMARKET_API_TIMEOUT", 30*time.Second),
		MaxRetries:     getIntOrDefault("POLYMARKET_MAX_RETRIES", 3),
		RetryBaseDelay: getDurationOrDefault("POLYMARKET_RETRY_BASE_DELAY", 500*time.Millisecond),

		// Cache defaults
		CacheEnabled:         getBoolOrDefault("POLYMARKET_CACHE_ENABLED", true),
		CacheTTL:             getDurationOrDefault("POLYMARKET_CACHE_TTL", 60*time.Second),
		ResourceCacheEnabled: getBoolOrDefault("POLYMARKET_RESOURCE_CACHE_ENABLED", true),
		ResourceCacheTTL:     getDurationOrDefault("POLYMARKET_RESOURCE_CACHE_TTL", 5*time.Minute),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.GammaBaseURL == "" {
		return fmt.Errorf("POLYMARKET_BASE_URL cannot be empty")
	}

	if _, err := url.Parse(c.GammaBaseURL); err != nil {
		return fmt.Errorf("POLYMARKET_BASE_URL is not a valid URL: %w", err)
	}

	if c.MaxRetries < 1 {
		return fmt.Errorf("POLYMARKET_MAX_RETRIES must be at least 1, got %d", c.MaxRetries)
	}

	if c.APITimeout <= 0 {
		return fmt.Errorf("POLYMARKET_API_TIMEOUT must be positive, got %s", c.APITimeout)
	}

	if c.RetryBaseDelay <= 0 {
		return fmt.Errorf("POLYMARKET_RETRY_BASE_DELAY must be positive, got %s", c.RetryBaseDelay)
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("POLYMARKET_CACHE_TTL must be positive, got %s", c.CacheTTL)
	}

	if c.ResourceCacheTTL <= 0 {
		return fmt.Errorf("POLYMARKET_RESOURCE_CACHE_TTL must be positive, got %s", c.ResourceCacheTTL)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
