package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a loaded config fails validation.
var ErrInvalid = errors.New("invalid config")

// FileName is the config file looked up in the working and config
// directories.
const FileName = "hair.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		filepath.Join(".", FileName),
		filepath.Join(ConfigDir(), FileName),
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
		return filepath.Join(home, "Library", "Application Support", "MidgardHair")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardHair")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "midgard-hair")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "midgard-hair")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Unknown keys are rejected so a misspelled parameter does not silently
// keep its default.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the settings the pipeline cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Run.TickRate <= 0:
		return fmt.Errorf("%w: run.tick_rate must be positive, got %v", ErrInvalid, c.Run.TickRate)
	case c.Run.Ticks < 0:
		return fmt.Errorf("%w: run.ticks must not be negative, got %d", ErrInvalid, c.Run.Ticks)
	case c.Bake.Width <= 0 || c.Bake.Height <= 0:
		return fmt.Errorf("%w: bake size %dx%d", ErrInvalid, c.Bake.Width, c.Bake.Height)
	case c.LOD.MaxDistance <= 0:
		return fmt.Errorf("%w: lod.max_distance must be positive, got %v", ErrInvalid, c.LOD.MaxDistance)
	}

	switch c.Export.TextureFormat {
	case "tga", "bmp", "tiff", "png":
	default:
		return fmt.Errorf("%w: export.texture_format %q", ErrInvalid, c.Export.TextureFormat)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}
