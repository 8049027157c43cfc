// Package config loads the reel scanner configuration from file and
// environment. Configuration lives at $XDG_CONFIG_HOME/reel/config.yaml
// with REEL_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/playback"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Console    bool              `mapstructure:"console"`
	Components map[string]string `mapstructure:"components"`
}

// ScanConfig holds the scanner settings.
type ScanConfig struct {
	// DefaultPath is scanned when no path argument is given.
	DefaultPath string `mapstructure:"default_path"`

	// MaxConcurrency caps simultaneous directory and file operations.
	MaxConcurrency int `mapstructure:"max_concurrency"`

	// BatchSize is the stat fan-out per batch within one directory.
	BatchSize int `mapstructure:"batch_size"`

	// Exclude contains glob patterns skipped during scanning.
	Exclude []string `mapstructure:"exclude"`
}

// HashConfig holds the fingerprinting settings.
type HashConfig struct {
	// Enabled turns fingerprinting and duplicate grouping on.
	Enabled bool `mapstructure:"enabled"`

	// Threshold is the full-versus-sampled boundary as a size string.
	Threshold string `mapstructure:"threshold"`

	// SampleSize is the bytes per sampled window as a size string.
	SampleSize string `mapstructure:"sample_size"`

	// FullAlways forces full-content hashing regardless of size, for
	// callers that need byte-exact duplicate confirmation.
	FullAlways bool `mapstructure:"full_always"`
}

// Config represents the application configuration.
type Config struct {
	Scan     ScanConfig      `mapstructure:"scan"`
	Hash     HashConfig      `mapstructure:"hash"`
	Logging  LoggingConfig   `mapstructure:"logging"`
	Playback playback.Config `mapstructure:"playback"`
}

// Load reads configuration from file and environment variables.
// A missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "reel"))
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "reel"))

	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{Playback: playback.Default()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Playback.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SetDefaults registers every configuration default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("scan.default_path", DefaultPath)
	v.SetDefault("scan.max_concurrency", DefaultMaxConcurrency)
	v.SetDefault("scan.batch_size", DefaultBatchSize)
	v.SetDefault("scan.exclude", DefaultExclusions)

	v.SetDefault("hash.enabled", false)
	v.SetDefault("hash.threshold", DefaultHashThreshold)
	v.SetDefault("hash.sample_size", DefaultHashSampleSize)
	v.SetDefault("hash.full_always", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.components", map[string]string{
		"scanner": "info",
		"hashing": "info",
		"output":  "warn",
	})

	v.SetDefault("playback.order", string(playback.OrderSequential))
}

// Dir returns the configuration directory path.
func Dir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "reel"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "reel"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	if path == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~/")), nil
}
