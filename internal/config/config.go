// Package config holds export settings and the auto-zoom sensitivity
// profiles. Settings come from an optional YAML file, then environment
// variables, then command-line flags.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS       = 60
	DefaultHalfRamp  = 0.15
	DefaultZoomLevel = 2.0

	// Environment variable names
	EnvFPS         = "SCREENCUT_FPS"
	EnvWorkers     = "SCREENCUT_WORKERS"
	EnvSensitivity = "SCREENCUT_SENSITIVITY"
	EnvHalfRamp    = "SCREENCUT_HALF_RAMP"
)

type Config struct {
	FPS          float64            `yaml:"fps"`
	Workers      int                `yaml:"workers"` // 0 = pick from the machine
	HalfRamp     float64            `yaml:"half_ramp"`
	ZoomLevel    float64            `yaml:"zoom_level"`
	Sensitivity  Sensitivity        `yaml:"sensitivity"`
	Profiles     map[string]Profile `yaml:"profiles"` // Overrides of the built-in profiles
	ClickDisplay float64            `yaml:"click_display"`
	VideoEncoder string             `yaml:"video_encoder"`
	Quality      int                `yaml:"quality"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		FPS:          DefaultFPS,
		HalfRamp:     DefaultHalfRamp,
		ZoomLevel:    DefaultZoomLevel,
		Sensitivity:  SensitivityMedium,
		ClickDisplay: 0.5,
	}
}

// Load reads path (if not empty) over the defaults and applies environment
// overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvFPS); v != "" {
		fps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvFPS, err)
		}
		c.FPS = fps
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		c.Workers = w
	}

	if v := os.Getenv(EnvSensitivity); v != "" {
		c.Sensitivity = Sensitivity(v)
	}

	if v := os.Getenv(EnvHalfRamp); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHalfRamp, err)
		}
		c.HalfRamp = h
	}

	return nil
}

// Validate checks ranges
func (c *Config) Validate() error {
	if !(c.FPS > 0) {
		return fmt.Errorf("fps must be positive, got %v", c.FPS)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.HalfRamp < 0 {
		return fmt.Errorf("half_ramp must not be negative, got %v", c.HalfRamp)
	}
	if c.ZoomLevel < MinZoomLevel || c.ZoomLevel > MaxZoomLevel {
		return fmt.Errorf("zoom_level must be within [%.1f, %.1f], got %v", MinZoomLevel, MaxZoomLevel, c.ZoomLevel)
	}
	if _, err := c.Profile(); err != nil {
		return err
	}
	return nil
}

// Profile resolves the active sensitivity profile, honouring overrides
func (c *Config) Profile() (Profile, error) {
	if p, ok := c.Profiles[string(c.Sensitivity)]; ok {
		p.Name = c.Sensitivity
		if err := p.Validate(); err != nil {
			return Profile{}, err
		}
		return p, nil
	}
	return ProfileFor(c.Sensitivity)
}
