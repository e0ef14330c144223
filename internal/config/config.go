// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir          string  // Base directory for databases (always absolute)
	Port             int     // HTTP listen port
	LogLevel         string  // debug, info, warn, error
	DevMode          bool    // Enables permissive CORS and pretty logging
	AccountBalance   float64 // Account balance used by the scheduled risk snapshot job
	SnapshotSchedule string  // Cron spec for the portfolio risk snapshot job
	SnapshotHistory  int     // Number of persisted snapshots to retain
}

// Load reads configuration from environment variables.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Resolve the data directory to an absolute path and make sure it exists
	// before any database is opened.
	dataDir := getEnv("HELMSMAN_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:          absDataDir,
		Port:             getEnvAsInt("HELMSMAN_PORT", 8010),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		AccountBalance:   getEnvAsFloat("HELMSMAN_ACCOUNT_BALANCE", 0),
		SnapshotSchedule: getEnv("HELMSMAN_SNAPSHOT_SCHEDULE", "@every 1m"),
		SnapshotHistory:  getEnvAsInt("HELMSMAN_SNAPSHOT_HISTORY", 1000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.AccountBalance < 0 {
		return fmt.Errorf("account balance cannot be negative: %f", c.AccountBalance)
	}
	if c.SnapshotHistory < 0 {
		return fmt.Errorf("snapshot history cannot be negative: %d", c.SnapshotHistory)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
