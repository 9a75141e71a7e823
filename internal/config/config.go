// Package config handles weldtool configuration loading and management.
package config

// Config holds all weldtool settings.
type Config struct {
	Weld    WeldConfig    `yaml:"weld"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// WeldConfig holds vertex welding settings.
type WeldConfig struct {
	ValidateIndices bool `yaml:"validate_indices"` // Reject out-of-range draw-call indices
}

// OutputConfig holds settings for writing welded meshes.
type OutputConfig struct {
	Suffix    string `yaml:"suffix"`    // Inserted before the extension when no output path is given
	Overwrite bool   `yaml:"overwrite"` // Allow replacing an existing output file
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Weld: WeldConfig{
			ValidateIndices: true,
		},
		Output: OutputConfig{
			Suffix:    ".welded",
			Overwrite: false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}
