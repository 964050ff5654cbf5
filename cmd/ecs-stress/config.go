package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config drives a stress run. Every field has a sane default so the tool
// runs without a config file; flags override file values.
type Config struct {
	Duration duration `toml:"duration"`
	Interval duration `toml:"interval"`
	Entities int      `toml:"entities"`
	Churn    int      `toml:"churn"`
	Profile  string   `toml:"profile"`
	Verbose  bool     `toml:"verbose"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func defaultConfig() Config {
	return Config{
		Duration: duration{10 * time.Second},
		Interval: duration{time.Millisecond},
		Entities: 10000,
		Churn:    100,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Duration.Duration <= 0 {
		return cfg, fmt.Errorf("config: duration must be positive, got %v", cfg.Duration.Duration)
	}
	if cfg.Interval.Duration <= 0 {
		return cfg, fmt.Errorf("config: interval must be positive, got %v", cfg.Interval.Duration)
	}
	if cfg.Entities <= 0 {
		return cfg, fmt.Errorf("config: entities must be positive, got %d", cfg.Entities)
	}
	if cfg.Churn < 0 {
		return cfg, fmt.Errorf("config: churn must not be negative, got %d", cfg.Churn)
	}
	switch cfg.Profile {
	case "", "cpu", "mem":
	default:
		return cfg, fmt.Errorf("config: unknown profile mode %q (want cpu or mem)", cfg.Profile)
	}
	return cfg, nil
}
