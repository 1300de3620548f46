// Package config loads process configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// DatabasePath is the SQLite file location.
	DatabasePath string
	// DebugSQL echoes every query to the log.
	DebugSQL bool
	// RateLimitsPath points at the per-site limits YAML. Empty means
	// built-in defaults for every site.
	RateLimitsPath string
	// ScrapeInterval is how often pending jobs are swept.
	ScrapeInterval time.Duration
}

// Load reads the .env file and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system env vars")
	}

	return &Config{
		DatabasePath:   getEnv("DATABASE_PATH", "pricescout.db"),
		DebugSQL:       getEnvBool("DEBUG_SQL", false),
		RateLimitsPath: getEnv("RATE_LIMITS_PATH", ""),
		ScrapeInterval: getEnvDuration("SCRAPE_INTERVAL", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes":
		return true
	case "0", "false", "FALSE", "no":
		return false
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
		log.Printf("invalid duration in %s: %q, using %v", key, val, fallback)
	}
	return fallback
}
