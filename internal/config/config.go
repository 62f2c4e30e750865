package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	APIToken           string
	DefaultDomain      string
	SummaryWorkerCount int
	SummaryQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "hanziflash.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		APIToken:           envOr("API_TOKEN", ""),
		DefaultDomain:      envOr("DEFAULT_DOMAIN", "chinese"),
		SummaryWorkerCount: envIntOr("SUMMARY_WORKER_COUNT", 2),
		SummaryQueueSize:   envIntOr("SUMMARY_QUEUE_SIZE", 64),
	}
}

// Validate checks the configuration for values that would prevent the
// server from running, collecting every problem into one error.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.DefaultDomain == "" {
		problems = append(problems, "DEFAULT_DOMAIN cannot be empty")
	}
	if c.SummaryWorkerCount < 1 {
		problems = append(problems, fmt.Sprintf("SUMMARY_WORKER_COUNT must be positive (got %d)", c.SummaryWorkerCount))
	}
	if c.SummaryQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("SUMMARY_QUEUE_SIZE must be positive (got %d)", c.SummaryQueueSize))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
