// Package config provides configuration loading and validation for pbxdiag.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// LogFile is the call-server log to scan.
	LogFile string `yaml:"log_file"`

	// MaxLineSize is the longest log line accepted, in bytes.
	MaxLineSize int `yaml:"max_line_size,omitempty"`

	Server   ServerConfig    `yaml:"server"`
	Logging  LoggingConfig   `yaml:"logging"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// ServerConfig configures the HTTP request layer.
type ServerConfig struct {
	// Listen is the address the server binds, e.g. ":5000".
	Listen string `yaml:"listen"`

	// RateLimit bounds requests per client IP. Every request scans the
	// whole log, so this is on by default.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig configures per-IP request limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate; 0 disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the number of requests allowed at once.
	Burst int `yaml:"burst"`
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when the report has issues (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every diagnosis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
