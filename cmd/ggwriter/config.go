package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/ggwriter"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration file.
type Config struct {
	LogLevel string       `yaml:"log_level"` // debug | info | warn | error
	Color    string       `yaml:"color"`     // auto | always | never
	Store    string       `yaml:"store"`     // database path for the store subcommand
	Addr     string       `yaml:"addr"`      // serve listen address
	Record   RecordConfig `yaml:"record"`
	Render   RenderConfig `yaml:"render"`
}

// RecordConfig configures decoded and recorded trees.
type RecordConfig struct {
	Ceiling     int    `yaml:"ceiling"`
	ForkPolicy  string `yaml:"fork_policy"` // grouped | flat
	Attribution *bool  `yaml:"attribution"` // unset follows the library default
}

// RenderConfig configures PNG output.
type RenderConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"` // hex color, empty for transparent
	Thumbnail  int    `yaml:"thumbnail"`  // longest side of thumbnails
}

// LoadConfig reads a YAML configuration file. An empty path returns the
// defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.Color == "" {
		c.Color = "auto"
	}
	if c.Store == "" {
		c.Store = "ggwriter.db"
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Record.ForkPolicy == "" {
		c.Record.ForkPolicy = ggwriter.ForkGrouped.String()
	}
	if c.Render.Thumbnail <= 0 {
		c.Render.Thumbnail = 256
	}
}

func (c *Config) validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unknown color mode %q", c.Color)
	}
	if _, err := c.policy(); err != nil {
		return err
	}
	if c.Record.Ceiling < 0 {
		return fmt.Errorf("negative ceiling %d", c.Record.Ceiling)
	}
	if c.Render.Background != "" {
		if _, err := parseHex(c.Render.Background); err != nil {
			return err
		}
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return fmt.Errorf("negative render size %dx%d", c.Render.Width, c.Render.Height)
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
}

func (c *Config) policy() (ggwriter.ForkPolicy, error) {
	switch c.Record.ForkPolicy {
	case ggwriter.ForkGrouped.String():
		return ggwriter.ForkGrouped, nil
	case ggwriter.ForkFlat.String():
		return ggwriter.ForkFlat, nil
	}
	return 0, fmt.Errorf("unknown fork policy %q", c.Record.ForkPolicy)
}

// Options returns the recording options the configuration selects.
func (c *Config) Options() []ggwriter.Option {
	p, _ := c.policy()
	opts := []ggwriter.Option{ggwriter.WithForkPolicy(p)}
	if c.Record.Attribution != nil {
		opts = append(opts, ggwriter.WithAttribution(*c.Record.Attribution))
	}
	if c.Record.Ceiling > 0 {
		opts = append(opts, ggwriter.WithCeiling(c.Record.Ceiling))
	}
	return opts
}
