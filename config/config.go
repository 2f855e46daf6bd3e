// Package config - Environment-driven service configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the analyzer service configuration.
type Config struct {
	Port                int
	ModelPath           string
	LabelsPath          string
	ONNXLibraryPath     string
	ConfidenceThreshold float32
	PoolSize            int
	AcquireTimeout      time.Duration
	Debug               bool
}

// Load reads configuration from the environment, consulting a .env file
// when one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                getEnvAsInt("PORT", 8080),
		ModelPath:           getEnv("MODEL_PATH", "best.onnx"),
		LabelsPath:          getEnv("LABELS_PATH", ""),
		ONNXLibraryPath:     getEnv("ONNX_LIB_PATH", ""),
		ConfidenceThreshold: getEnvAsFloat32("CONFIDENCE_THRESHOLD", 0.25),
		PoolSize:            getEnvAsInt("POOL_SIZE", 4),
		AcquireTimeout:      getEnvAsDuration("ACQUIRE_TIMEOUT", 5*time.Second),
		Debug:               getEnv("DEBUG", "") == "true",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.ModelPath == "" {
		return fmt.Errorf("model path cannot be empty")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be between 0 and 1, got %.2f", c.ConfidenceThreshold)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("pool size must be positive, got %d", c.PoolSize)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatValue)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
