package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
// An empty path loads the defaults with environment overrides applied.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults.
func Validate(cfg *Config) error {
	if cfg.LogFile == "" {
		return errors.New("log_file: a log file path is required")
	}

	if cfg.MaxLineSize < 0 {
		return fmt.Errorf("max_line_size: must be positive, got %d", cfg.MaxLineSize)
	}
	if cfg.MaxLineSize == 0 {
		cfg.MaxLineSize = DefaultMaxLineSize
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = DefaultListen
	}

	if err := validateRateLimit(&cfg.Server.RateLimit); err != nil {
		return fmt.Errorf("server.rate_limit: %w", err)
	}

	if err := validateLogging(&cfg.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateLogging(lc *LoggingConfig) error {
	if lc.Level == "" {
		lc.Level = DefaultLogLevel
	}
	switch strings.ToLower(lc.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid level %q (must be debug, info, warn, or error)", lc.Level)
	}

	if lc.Format == "" {
		lc.Format = DefaultLogFormat
	}
	switch lc.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", lc.Format)
	}

	return nil
}

func validateRateLimit(rl *RateLimitConfig) error {
	if rl.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %g", rl.RequestsPerSecond)
	}
	if rl.Burst < 0 {
		return fmt.Errorf("burst must not be negative, got %d", rl.Burst)
	}
	if rl.RequestsPerSecond > 0 && rl.Burst == 0 {
		rl.Burst = max(1, int(math.Ceil(rl.RequestsPerSecond)))
	}
	return nil
}

// ValidateWebhook checks a single webhook definition and fills in defaults.
func ValidateWebhook(wh *WebhookConfig) error {
	return validateWebhook(wh)
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
		default:
			return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
		}
	} else {
		wh.Trigger = WebhookTriggerOnIssues
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
