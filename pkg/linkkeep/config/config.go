package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration, sourced from the environment.
// JWT_SECRET is read directly by the auth package.
type Config struct {
	Port         string
	DBPath       string
	BaseURL      string
	StoreTimeout time.Duration
}

// Load reads configuration from a .env file (if present) and the
// environment, falling back to development defaults.
func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("LINKKEEP_DB_PATH", "linkkeep.db"),
		BaseURL:      getEnv("LINKKEEP_BASE_URL", "http://localhost:8080"),
		StoreTimeout: getDuration("LINKKEEP_STORE_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
