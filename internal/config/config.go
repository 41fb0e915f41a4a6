package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the server configuration, loaded from the environment.
type Config struct {
	// Server
	Port string `json:"port"`

	// Record store
	DatabasePath string `json:"database_path"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// External ML recommendation service
	MLBaseURL string        `json:"ml_base_url"`
	MLTimeout time.Duration `json:"ml_timeout"`

	// External budget prediction service
	BudgetBaseURL         string        `json:"budget_base_url"`
	BudgetTimeout         time.Duration `json:"budget_timeout"`
	BudgetRateLimitPerSec int           `json:"budget_rate_limit_per_sec"`
	BudgetCacheTTL        time.Duration `json:"budget_cache_ttl"`

	// Logging
	LogLevel string `json:"log_level"`
}

// LoadConfig reads the configuration from environment variables, applying
// defaults suitable for local development.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port: getEnv("SERVER_PORT", "9090"),

		DatabasePath: getEnv("DATABASE_PATH", "barangay.db"),

		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 3),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		MLBaseURL: getEnv("ML_BASE_URL", "http://localhost:5000"),
		MLTimeout: getEnvDuration("ML_TIMEOUT", 60*time.Second),

		BudgetBaseURL:         getEnv("BUDGET_BASE_URL", "http://localhost:5001"),
		BudgetTimeout:         getEnvDuration("BUDGET_TIMEOUT", 30*time.Second),
		BudgetRateLimitPerSec: getEnvInt("BUDGET_RATE_LIMIT_PER_SEC", 2),
		BudgetCacheTTL:        getEnvDuration("BUDGET_CACHE_TTL", 10*time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as int with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration reads an environment variable as a Duration with a default
// fallback.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
