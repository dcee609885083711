package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Log sources for the log table.
const (
	LogSourcePoll   = "poll"
	LogSourceStream = "stream"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	PlatformURL    string        `envconfig:"PLATFORM_URL" required:"true"`
	PlatformAPIKey string        `envconfig:"PLATFORM_API_KEY"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	// LogSource is "poll" (refetch the whole list) or "stream" (append
	// generated records, capped at LogCapacity).
	LogSource        string        `envconfig:"LOG_SOURCE" default:"poll"`
	PollInterval     time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`
	StreamInterval   time.Duration `envconfig:"STREAM_INTERVAL" default:"2s"`
	LogCapacity      int           `envconfig:"LOG_CAPACITY" default:"100"`
	RefreshRateLimit float64       `envconfig:"REFRESH_RATE_LIMIT" default:"1"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("TRYON", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	return cfg
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	if c.LogSource != LogSourcePoll && c.LogSource != LogSourceStream {
		return fmt.Errorf("invalid LOG_SOURCE %q (expected %q or %q)", c.LogSource, LogSourcePoll, LogSourceStream)
	}
	if c.PollInterval <= 0 || c.StreamInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL and STREAM_INTERVAL must be positive")
	}
	if c.LogCapacity <= 0 {
		return fmt.Errorf("LOG_CAPACITY must be positive")
	}
	return nil
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}

func (c *Config) IsStreaming() bool {
	return c.LogSource == LogSourceStream
}

// TracesSampleRate samples every trace in development and 10% elsewhere.
func (c *Config) TracesSampleRate() float64 {
	if c.Environment == "development" {
		return 1.0
	}
	return 0.1
}
