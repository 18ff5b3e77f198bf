// Package config loads the radsurvey tool configuration from a small YAML
// file. Absent files and absent fields fall back to defaults, so the tool
// runs with no configuration at all.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds tool-level settings.
type Config struct {
	// CacheDir is where assembled-line cache entries live.
	CacheDir string `yaml:"cache_dir"`

	// DefaultChannel is the datacapture channel extracted when none is
	// requested.
	DefaultChannel int `yaml:"default_channel"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		CacheDir: "cache",
		LogLevel: "info",
	}
}

// Load reads the configuration at path. A nonexistent file yields the
// defaults; a file that exists but fails to parse is an error. Fields the
// file omits keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "cache"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog level. Unknown names
// map to Info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
