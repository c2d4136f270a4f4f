package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the showcase cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width < 1 || c.Graphics.Height < 1 {
		errs = append(errs, fmt.Errorf("graphics size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Scene.IdleStep < 0 || c.Scene.IdleRate < 0 {
		errs = append(errs, errors.New("idle rotation must not run backwards"))
	}
	if c.Scene.Particles.Count < 0 {
		errs = append(errs, errors.New("particle count must not be negative"))
	}
	if c.Scene.Particles.MaxSize < c.Scene.Particles.MinSize {
		errs = append(errs, errors.New("particle max_size is below min_size"))
	}
	if c.Scene.Near <= 0 || c.Scene.Far <= c.Scene.Near {
		errs = append(errs, fmt.Errorf("clip range %v..%v is invalid", c.Scene.Near, c.Scene.Far))
	}
	switch c.Assets.FailurePolicy {
	case "", "ignore", "report":
	default:
		errs = append(errs, fmt.Errorf("unknown failure_policy %q", c.Assets.FailurePolicy))
	}
	if n := len(c.Assets.EnvironmentFaces); n != 0 && n != 6 {
		errs = append(errs, fmt.Errorf("environment_faces needs 6 entries, got %d", n))
	}
	return errors.Join(errs...)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Jewelbox")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Jewelbox")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "jewelbox")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "jewelbox")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
