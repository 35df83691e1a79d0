package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Default values for configuration.
const (
	DefaultLogFile        = "test.txt"
	DefaultMaxLineSize    = 1024 * 1024
	DefaultListen         = ":5000"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultWebhookTimeout = 10 * time.Second
	DefaultRatePerSecond  = 5
	DefaultRateBurst      = 10
)

// Environment variable names.
const (
	EnvLogFile  = "PBXDIAG_LOG_FILE"
	EnvListen   = "PBXDIAG_LISTEN"
	EnvLogLevel = "PBXDIAG_LOG_LEVEL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogFile:     DefaultLogFile,
		MaxLineSize: DefaultMaxLineSize,
		Server: ServerConfig{
			Listen: DefaultListen,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: DefaultRatePerSecond,
				Burst:             DefaultRateBurst,
			},
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables that are already set are left untouched, so the
// real environment still wins.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}
