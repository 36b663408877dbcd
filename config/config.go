package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	AllowOrigins string `toml:"allow_origins"`
	// Seconds to wait for in-flight requests on shutdown
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// SeedConfig controls the generated demo dataset
type SeedConfig struct {
	Profiles   int   `toml:"profiles"`
	Posts      int   `toml:"posts"`
	RandomSeed int64 `toml:"random_seed"`
}

// FeedConfig bounds the page size accepted by the feed endpoint
type FeedConfig struct {
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
}

// MaxFeedLimit is the largest page size the feed endpoint ever serves
const MaxFeedLimit = 50

// TracingConfig controls OpenTelemetry tracing. Spans are only exported
// when Endpoint is set.
type TracingConfig struct {
	ServiceName string `toml:"service_name"`
	// OTLP/HTTP traces endpoint, e.g. http://localhost:4318/v1/traces
	Endpoint string `toml:"endpoint"`
}

// Config represents the top-level configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Seed    SeedConfig    `toml:"seed"`
	Feed    FeedConfig    `toml:"feed"`
	Tracing TracingConfig `toml:"tracing"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			AllowOrigins:    "*",
			ShutdownTimeout: 60,
		},
		Seed: SeedConfig{
			Profiles:   12,
			Posts:      100,
			RandomSeed: 42,
		},
		Feed: FeedConfig{
			DefaultLimit: 20,
			MaxLimit:     MaxFeedLimit,
		},
		Tracing: TracingConfig{
			ServiceName: "social-media-backend",
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults. Keys missing from
// the file keep their default value.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Seed.Profiles < 0 || c.Seed.Posts < 0 {
		return fmt.Errorf("seed counts must not be negative")
	}
	if c.Feed.MaxLimit < 1 || c.Feed.MaxLimit > MaxFeedLimit {
		return fmt.Errorf("feed max_limit must be between 1 and %d", MaxFeedLimit)
	}
	if c.Feed.DefaultLimit < 1 || c.Feed.DefaultLimit > c.Feed.MaxLimit {
		return fmt.Errorf("feed default_limit must be between 1 and %d", c.Feed.MaxLimit)
	}
	if c.Tracing.ServiceName == "" {
		return fmt.Errorf("tracing service_name must not be empty")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
