package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration, loaded from environment
// variables with sensible defaults for local development.
type Config struct {
	Port              string
	LogLevel          string
	MaxStatementBytes int64
	JobQueueSize      int
	JobWorkers        int
}

// New loads configuration from environment variables.
func New() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	maxBytes, err := getEnvInt64("MAX_STATEMENT_BYTES", 16<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxStatementBytes = maxBytes

	queueSize, err := getEnvInt("JOB_QUEUE_SIZE", 100)
	if err != nil {
		return nil, err
	}
	cfg.JobQueueSize = queueSize

	workers, err := getEnvInt("JOB_WORKERS", 5)
	if err != nil {
		return nil, err
	}
	cfg.JobWorkers = workers

	if cfg.MaxStatementBytes <= 0 {
		return nil, fmt.Errorf("config: MAX_STATEMENT_BYTES must be positive")
	}
	if cfg.JobQueueSize <= 0 {
		return nil, fmt.Errorf("config: JOB_QUEUE_SIZE must be positive")
	}
	if cfg.JobWorkers <= 0 {
		return nil, fmt.Errorf("config: JOB_WORKERS must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultVal int64) (int64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
