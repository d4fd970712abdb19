// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultDataDir           = "./data"
	DefaultPort              = 8080
	DefaultSolverTimeout     = 10 * time.Second
	DefaultHistoryLimit      = 10
	DefaultHistoryRetention  = 50
	DefaultRetentionSchedule = "@hourly"
	DefaultCacheTTL          = 15 * time.Minute
)

// Config holds application configuration
type Config struct {
	DataDir           string        // Directory holding budget.db (always absolute)
	Port              int           // HTTP port
	LogLevel          string        // debug, info, warn, error
	DevMode           bool          // Pretty logs and permissive CORS
	SolverTimeout     time.Duration // Time budget passed into every solve
	RedisURL          string        // Empty disables the latest-result cache
	CacheTTL          time.Duration // Lifetime of cached latest results
	HistoryLimit      int           // Default page size of the history endpoint
	HistoryRetention  int           // Results kept per profile by the retention job
	RetentionSchedule string        // Cron spec of the retention job
	CORSOrigins       []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("BUDGET_DATA_DIR", DefaultDataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	timeout, err := getEnvAsDuration("SOLVER_TIMEOUT", DefaultSolverTimeout)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", DefaultCacheTTL)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:           absDataDir,
		Port:              getEnvAsInt("PORT", DefaultPort),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		SolverTimeout:     timeout,
		RedisURL:          getEnv("REDIS_URL", ""),
		CacheTTL:          cacheTTL,
		HistoryLimit:      getEnvAsInt("HISTORY_LIMIT", DefaultHistoryLimit),
		HistoryRetention:  getEnvAsInt("HISTORY_RETENTION", DefaultHistoryRetention),
		RetentionSchedule: getEnv("RETENTION_SCHEDULE", DefaultRetentionSchedule),
		CORSOrigins:       getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:8000"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.SolverTimeout <= 0 {
		return fmt.Errorf("SOLVER_TIMEOUT must be positive, got %s", c.SolverTimeout)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.HistoryRetention <= 0 {
		return fmt.Errorf("HISTORY_RETENTION must be positive, got %d", c.HistoryRetention)
	}
	if strings.TrimSpace(c.RetentionSchedule) == "" {
		return fmt.Errorf("RETENTION_SCHEDULE must not be empty")
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("1500ms") and plain seconds ("10").
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
