package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Upstream FPL API
	FPLBaseURL  string
	UserAgent   string
	HTTPTimeout time.Duration

	// Season load
	FetchConcurrency int
	LoadTimeout      time.Duration

	// Raw response cache
	RedisURL string
	CacheTTL time.Duration
}

// Load loads configuration from environment variables.
// Redis is optional; everything else has a working default.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		FPLBaseURL:  getEnv("FPL_BASE_URL", "https://fantasy.premierleague.com/api/"),
		UserAgent:   getEnv("FPL_USER_AGENT", "fpl-analytics-api/1.0"),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 20*time.Second),

		FetchConcurrency: getEnvInt("FETCH_CONCURRENCY", 8),
		LoadTimeout:      getEnvDuration("LOAD_TIMEOUT", 5*time.Minute),

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getEnvDuration("CACHE_TTL", 15*time.Minute),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	if cfg.FetchConcurrency < 1 {
		return nil, fmt.Errorf("FETCH_CONCURRENCY must be at least 1, got %d", cfg.FetchConcurrency)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
