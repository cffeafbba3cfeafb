package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from the environment
type Config struct {
	// The Odds API
	OddsAPIKey string
	SportKey   string
	Regions    []string
	Markets    []string

	// HTTP server
	ListenAddr  string
	CORSOrigins []string

	// Snapshot cache (optional, disabled when RedisURL is empty)
	RedisURL string
	CacheTTL time.Duration

	// Opportunity log (optional, disabled when DSN is empty)
	PostgresDSN string

	// Pipeline
	RefreshInterval time.Duration
	MinEV           float64
}

// Load reads configuration from the environment. A .env file is honored when
// present. The feed API key is the one fatal requirement.
func Load() (*Config, error) {
	// Missing .env is fine in deployed environments
	_ = godotenv.Load()

	cfg := &Config{
		OddsAPIKey:      os.Getenv("ODDS_API_KEY"),
		SportKey:        getEnv("SPORT_KEY", "americanfootball_nfl"),
		Regions:         getEnvStringSlice("ODDS_REGIONS", []string{"us"}),
		Markets:         getEnvStringSlice("ODDS_MARKETS", []string{"h2h", "spreads", "totals"}),
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		CORSOrigins:     getEnvStringSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		RedisURL:        os.Getenv("REDIS_URL"),
		CacheTTL:        getEnvDuration("CACHE_TTL_SECONDS", 600*time.Second),
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL_SECONDS", 600*time.Second),
		MinEV:           getEnvFloat("MIN_EV", 0.0),
	}

	if cfg.OddsAPIKey == "" {
		return nil, fmt.Errorf("ODDS_API_KEY is not set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
