// Package config loads runtime settings for the ECS tools from TOML or YAML.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = eris.New("unsupported config format")
	ErrInvalid           = eris.New("invalid config")
)

type Config struct {
	World   WorldConfig   `toml:"world" yaml:"world"`
	Stress  StressConfig  `toml:"stress" yaml:"stress"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
	Report  ReportConfig  `toml:"report" yaml:"report"`
	Profile ProfileConfig `toml:"profile" yaml:"profile"`
}

type WorldConfig struct {
	Pooling         bool `toml:"pooling" yaml:"pooling"`
	InitialCapacity int  `toml:"initial_capacity" yaml:"initial_capacity"`
}

type StressConfig struct {
	Entities     int      `toml:"entities" yaml:"entities"`
	Components   int      `toml:"components" yaml:"components"`
	Tags         int      `toml:"tags" yaml:"tags"` // how many of Components carry no data
	Systems      int      `toml:"systems" yaml:"systems"`
	Duration     Duration `toml:"duration" yaml:"duration"`
	Churn        int      `toml:"churn" yaml:"churn"` // entities removed and recreated per tick
	Seed         int64    `toml:"seed" yaml:"seed"`
	MaxFrequency int      `toml:"max_frequency" yaml:"max_frequency"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "console" or "json"
}

type MetricsConfig struct {
	StatsdAddress string   `toml:"statsd_address" yaml:"statsd_address"` // empty disables statsd
	Namespace     string   `toml:"namespace" yaml:"namespace"`
	Tags          []string `toml:"tags" yaml:"tags"`
}

type ReportConfig struct {
	Format string `toml:"format" yaml:"format"` // "text" or "json"
}

type ProfileConfig struct {
	Mode string `toml:"mode" yaml:"mode"` // "", "cpu", "mem", "allocs", "block", "mutex", "trace"
	Path string `toml:"path" yaml:"path"`
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return eris.Wrapf(err, "parse duration %q", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Load reads the file at path over Defaults. The format is picked from the
// file extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read config %s", path)
	}

	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, eris.Wrapf(err, "parse config %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, eris.Wrapf(err, "parse config %s", path)
		}
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		World: WorldConfig{
			Pooling:         true,
			InitialCapacity: 1024,
		},
		Stress: StressConfig{
			Entities:     10000,
			Components:   250,
			Tags:         50,
			Systems:      50,
			Duration:     Duration{10 * time.Second},
			Churn:        100,
			Seed:         1,
			MaxFrequency: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Namespace: "sigecs.",
		},
		Report: ReportConfig{
			Format: "text",
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.World.InitialCapacity < 0:
		return eris.Wrap(ErrInvalid, "world.initial_capacity must not be negative")
	case c.Stress.Entities < 0:
		return eris.Wrap(ErrInvalid, "stress.entities must not be negative")
	case c.Stress.Components < 1:
		return eris.Wrap(ErrInvalid, "stress.components must be at least 1")
	case c.Stress.Tags < 0 || c.Stress.Tags > c.Stress.Components:
		return eris.Wrap(ErrInvalid, "stress.tags must be between 0 and stress.components")
	case c.Stress.Systems < 0:
		return eris.Wrap(ErrInvalid, "stress.systems must not be negative")
	case c.Stress.Churn < 0:
		return eris.Wrap(ErrInvalid, "stress.churn must not be negative")
	case c.Stress.MaxFrequency < 1:
		return eris.Wrap(ErrInvalid, "stress.max_frequency must be at least 1")
	case c.Stress.Duration.Duration <= 0:
		return eris.Wrap(ErrInvalid, "stress.duration must be positive")
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return eris.Wrapf(ErrInvalid, "logging.level %q", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return eris.Wrapf(ErrInvalid, "logging.format %q", c.Logging.Format)
	}
	if c.Report.Format != "text" && c.Report.Format != "json" {
		return eris.Wrapf(ErrInvalid, "report.format %q", c.Report.Format)
	}

	switch c.Profile.Mode {
	case "", "cpu", "mem", "allocs", "block", "mutex", "trace":
	default:
		return eris.Wrapf(ErrInvalid, "profile.mode %q", c.Profile.Mode)
	}
	return nil
}

// LogLevel returns the configured zerolog level.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Logging.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
