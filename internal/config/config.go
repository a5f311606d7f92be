// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the binary reads. Each field maps to a MUDRA_
// environment variable.
type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Server
	Addr      string `env:"ADDR" envDefault:":8080"`
	StaticDir string `env:"STATIC_DIR"`
	DataDir   string `env:"DATA_DIR"`

	// Capture and detection
	CameraID      int     `env:"CAMERA_ID" envDefault:"0"`
	DetectFPS     int     `env:"DETECT_FPS" envDefault:"30"`
	MaxHands      int     `env:"MAX_HANDS" envDefault:"2"`
	MinConfidence float64 `env:"MIN_CONFIDENCE" envDefault:"0.5"`
	MockDetector  bool    `env:"MOCK_DETECTOR"`

	// Simulation
	FPS           int     `env:"FPS" envDefault:"60"`
	ParticleCount int     `env:"PARTICLE_COUNT" envDefault:"25000"`
	SphereRadius  float64 `env:"SPHERE_RADIUS" envDefault:"80"`
	Seed          uint64  `env:"SEED" envDefault:"1"`

	// Trigger
	PluginDir     string `env:"PLUGIN_DIR"`
	TriggerPlugin string `env:"TRIGGER_PLUGIN" envDefault:"fullscreen"`
	TriggerAction string `env:"TRIGGER_ACTION" envDefault:"toggle"`

	Tray bool `env:"TRAY" envDefault:"false"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment and validates it.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "MUDRA_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.fill(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) fill() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".mudra")
	}
	if c.PluginDir == "" {
		c.PluginDir = filepath.Join(c.DataDir, "plugins")
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("config: FPS must be positive, got %d", c.FPS)
	case c.DetectFPS <= 0:
		return fmt.Errorf("config: DETECT_FPS must be positive, got %d", c.DetectFPS)
	case c.ParticleCount <= 0:
		return fmt.Errorf("config: PARTICLE_COUNT must be positive, got %d", c.ParticleCount)
	case c.SphereRadius <= 0:
		return fmt.Errorf("config: SPHERE_RADIUS must be positive, got %g", c.SphereRadius)
	case c.MaxHands < 1:
		return fmt.Errorf("config: MAX_HANDS must be at least 1, got %d", c.MaxHands)
	case c.MinConfidence < 0 || c.MinConfidence > 1:
		return fmt.Errorf("config: MIN_CONFIDENCE must be in [0,1], got %g", c.MinConfidence)
	}
	return nil
}

// DBPath returns the SQLite database location inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "mudra.db")
}

// Production reports whether the process runs in the production environment.
func (c *Config) Production() bool {
	return c.Env == "production"
}
