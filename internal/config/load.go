package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a loaded config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit -config path takes priority over the search locations
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
		return nil, err
	}
	return cfg, nil
}

// Validate checks that settings are usable.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	if c.Logging.LogFile != "" && c.Logging.MaxSizeMB <= 0 {
		return fmt.Errorf("%w: max_size_mb must be positive", ErrInvalidConfig)
	}
	if c.Logging.MaxBackups < 0 {
		return fmt.Errorf("%w: max_backups must not be negative", ErrInvalidConfig)
	}
	return nil
}

// findConfigFile returns the first existing config in the working
// directory or the user config directory.
func findConfigFile() string {
	candidates := []string{"weldtool.yaml"}
	if dir := ConfigDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "config.yaml"))
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the weldtool directory inside the user config
// directory, or "" when the platform has none.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return filepath.Join(base, "VertexWeld")
	}
	return filepath.Join(base, "vertexweld")
}

// loadFromFile merges a YAML file over the values already in cfg.
// Unknown keys are rejected.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
