package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/leaguesim/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:             ":8080",
		DBPath:           "test.db",
		LogLevel:         "INFO",
		SimWorkerCount:   2,
		SimQueueSize:     32,
		TrialWorkerCount: 4,
		MaxTrials:        200000,
		SyncTrialLimit:   2000,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidCounts(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "zero sim workers",
			mutate:        func(c *config.Config) { c.SimWorkerCount = 0 },
			expectedError: "SIM_WORKER_COUNT",
		},
		{
			name:          "negative sim workers",
			mutate:        func(c *config.Config) { c.SimWorkerCount = -1 },
			expectedError: "SIM_WORKER_COUNT",
		},
		{
			name:          "zero sim queue",
			mutate:        func(c *config.Config) { c.SimQueueSize = 0 },
			expectedError: "SIM_QUEUE_SIZE",
		},
		{
			name:          "zero trial workers",
			mutate:        func(c *config.Config) { c.TrialWorkerCount = 0 },
			expectedError: "TRIAL_WORKER_COUNT",
		},
		{
			name:          "zero max trials",
			mutate:        func(c *config.Config) { c.MaxTrials = 0 },
			expectedError: "MAX_TRIALS",
		},
		{
			name:          "zero sync trial limit",
			mutate:        func(c *config.Config) { c.SyncTrialLimit = 0 },
			expectedError: "SYNC_TRIAL_LIMIT",
		},
		{
			name: "sync limit above max trials",
			mutate: func(c *config.Config) {
				c.MaxTrials = 100
				c.SyncTrialLimit = 200
			},
			expectedError: "SYNC_TRIAL_LIMIT cannot exceed MAX_TRIALS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{
			name:  "invalid level",
			level: "INVALID",
		},
		{
			name:  "empty level",
			level: "",
		},
		{
			name:  "lowercase valid level",
			level: "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.level == "debug" {
				// Lowercase should be accepted (converted to uppercase)
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_ValidLogLevels(t *testing.T) {
	validLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}

	for _, level := range validLevels {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level

			err := cfg.Validate()
			assert.NoError(t, err)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Addr:             "",
		DBPath:           "",
		LogLevel:         "INVALID",
		SimWorkerCount:   0,
		SimQueueSize:     0,
		TrialWorkerCount: 0,
		MaxTrials:        0,
		SyncTrialLimit:   0,
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "SIM_WORKER_COUNT")
	assert.Contains(t, errStr, "SIM_QUEUE_SIZE")
	assert.Contains(t, errStr, "TRIAL_WORKER_COUNT")
	assert.Contains(t, errStr, "MAX_TRIALS")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// Save original values
	originalAddr := os.Getenv("ADDR")
	originalDBPath := os.Getenv("DB_PATH")

	defer func() {
		if originalAddr != "" {
			os.Setenv("ADDR", originalAddr)
		} else {
			os.Unsetenv("ADDR")
		}
		if originalDBPath != "" {
			os.Setenv("DB_PATH", originalDBPath)
		} else {
			os.Unsetenv("DB_PATH")
		}
	}()

	os.Setenv("ADDR", ":9090")
	os.Setenv("DB_PATH", "custom.db")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "SIM_WORKER_COUNT", "MAX_TRIALS"} {
		if original := os.Getenv(key); original != "" {
			defer os.Setenv(key, original)
			os.Unsetenv(key)
		}
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 2, cfg.SimWorkerCount)
	assert.NoError(t, cfg.Validate())
}
