package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Application settings
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Engine  EngineConfig
	Import  ImportConfig
	Export  ExportConfig
}

// Server settings
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
}

// Heuristic tuning for the ingestion engine
type EngineConfig struct {
	HeaderScanRows         int
	BudgetCeiling          float64
	DecimalPreferenceBelow float64
}

type ImportConfig struct {
	WorkerPoolSize int
	MaxUploadBytes int64
}

type ExportConfig struct {
	SinkURL            string
	SinkSecret         string
	Timeout            time.Duration
	RateLimitPerSecond int
}

// Logging settings
type LoggingConfig struct {
	Level string
}

// Load reads settings from the environment. A .env file in the working
// directory is applied first when one exists; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", "30s"),
		},
		Engine: EngineConfig{
			HeaderScanRows:         getIntEnv("HEADER_SCAN_ROWS", 10),
			BudgetCeiling:          getFloatEnv("BUDGET_CEILING", 500000),
			DecimalPreferenceBelow: getFloatEnv("BUDGET_DECIMAL_PREFERENCE_BELOW", 100000),
		},
		Import: ImportConfig{
			WorkerPoolSize: getIntEnv("IMPORT_WORKER_POOL_SIZE", 4),
			MaxUploadBytes: int64(getIntEnv("UPLOAD_MAX_BYTES", 20<<20)),
		},
		Export: ExportConfig{
			SinkURL:            getEnv("SINK_URL", ""),
			SinkSecret:         getEnv("SINK_SECRET", ""),
			Timeout:            getDurationEnv("SINK_TIMEOUT", "30s"),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 10),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.Engine.HeaderScanRows <= 0 {
		return fmt.Errorf("HEADER_SCAN_ROWS must be positive, got %d", c.Engine.HeaderScanRows)
	}
	if c.Engine.BudgetCeiling <= 0 {
		return fmt.Errorf("BUDGET_CEILING must be positive, got %g", c.Engine.BudgetCeiling)
	}
	if c.Engine.DecimalPreferenceBelow <= 0 || c.Engine.DecimalPreferenceBelow > c.Engine.BudgetCeiling {
		return fmt.Errorf("BUDGET_DECIMAL_PREFERENCE_BELOW must be in (0, %g], got %g",
			c.Engine.BudgetCeiling, c.Engine.DecimalPreferenceBelow)
	}
	if c.Import.WorkerPoolSize <= 0 {
		return fmt.Errorf("IMPORT_WORKER_POOL_SIZE must be positive, got %d", c.Import.WorkerPoolSize)
	}
	if c.Export.RateLimitPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive, got %d", c.Export.RateLimitPerSecond)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getDurationEnv(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
