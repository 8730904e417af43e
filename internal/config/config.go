package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	SimWorkerCount   int
	SimQueueSize     int
	TrialWorkerCount int
	MaxTrials        int
	SyncTrialLimit   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:leaguesim.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		SimWorkerCount:   envIntOr("SIM_WORKER_COUNT", 2),
		SimQueueSize:     envIntOr("SIM_QUEUE_SIZE", 32),
		TrialWorkerCount: envIntOr("TRIAL_WORKER_COUNT", 4),
		MaxTrials:        envIntOr("MAX_TRIALS", 200000),
		SyncTrialLimit:   envIntOr("SYNC_TRIAL_LIMIT", 2000),
	}
}

// Validate checks that a configuration can actually run the service. All
// problems are reported at once, named after the environment variables they
// come from.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, "LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR")
	}
	if c.SimWorkerCount < 1 {
		problems = append(problems, "SIM_WORKER_COUNT must be at least 1")
	}
	if c.SimQueueSize < 1 {
		problems = append(problems, "SIM_QUEUE_SIZE must be at least 1")
	}
	if c.TrialWorkerCount < 1 {
		problems = append(problems, "TRIAL_WORKER_COUNT must be at least 1")
	}
	if c.MaxTrials < 1 {
		problems = append(problems, "MAX_TRIALS must be at least 1")
	}
	if c.SyncTrialLimit < 1 {
		problems = append(problems, "SYNC_TRIAL_LIMIT must be at least 1")
	}
	if c.SyncTrialLimit > c.MaxTrials {
		problems = append(problems, "SYNC_TRIAL_LIMIT cannot exceed MAX_TRIALS")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
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
