// Package config holds the settings the timingtest host is started with.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Window describes the overlay window.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Loop describes how often the host simulates and renders.
type Loop struct {
	UpdatesPerSecond int `yaml:"updatesPerSecond"`
	RendersPerSecond int `yaml:"rendersPerSecond"`
}

// Metrics configures the expvar endpoint. An empty Addr disables it.
type Metrics struct {
	Addr string `yaml:"addr"`
}

// Log configures the console logger.
type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config is the full host configuration.
type Config struct {
	Window  Window  `yaml:"window"`
	Loop    Loop    `yaml:"loop"`
	Metrics Metrics `yaml:"metrics"`
	Log     Log     `yaml:"log"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "Timing Test",
			Width:  240,
			Height: 240,
		},
		Loop: Loop{
			UpdatesPerSecond: 120,
			RendersPerSecond: 60,
		},
		Log: Log{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d must be positive", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Loop.UpdatesPerSecond <= 0 {
		return fmt.Errorf("%w: updatesPerSecond %d must be positive", ErrInvalidConfig, c.Loop.UpdatesPerSecond)
	}
	if c.Loop.RendersPerSecond <= 0 {
		return fmt.Errorf("%w: rendersPerSecond %d must be positive", ErrInvalidConfig, c.Loop.RendersPerSecond)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SimulationLatency is the fixed step between updates.
func (c Config) SimulationLatency() time.Duration {
	return time.Second / time.Duration(c.Loop.UpdatesPerSecond)
}

// RenderLatency is the delay between renders.
func (c Config) RenderLatency() time.Duration {
	return time.Second / time.Duration(c.Loop.RendersPerSecond)
}

// LogLevel is the parsed log level.
func (c Config) LogLevel() zerolog.Level {
	return c.Log.LevelOrDefault()
}

// LevelOrDefault parses Level, falling back to info when it is empty or
// unknown.
func (l Log) LevelOrDefault() zerolog.Level {
	lvl, err := zerolog.ParseLevel(l.Level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
