package config

import "time"

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Endpoint EndpointConfig `yaml:"endpoint"`
	Retry    RetryConfig    `yaml:"retry"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// EndpointConfig holds settings for the execution node endpoint.
type EndpointConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// RetryConfig holds retry tuning. Manual selects the explicit per-call
// backoff policy instead of the retrying HTTP transport.
type RetryConfig struct {
	Manual         bool          `yaml:"manual"`
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
