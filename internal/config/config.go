package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/riordanpawley/floatui/internal/core/placement"
	"github.com/riordanpawley/floatui/internal/domain"
	"github.com/riordanpawley/floatui/internal/ui/input"
)

// Config represents the full floatui configuration
type Config struct {
	Placement PlacementConfig     `json:"placement" toml:"placement"`
	Trigger   TriggerConfig       `json:"trigger" toml:"trigger"`
	Log       LogConfig           `json:"log" toml:"log"`
	Keys      map[string][]string `json:"keys" toml:"keys"`
}

// PlacementConfig controls where floating content goes
type PlacementConfig struct {
	Preferred       string `json:"preferred" toml:"preferred"`
	Alignment       string `json:"alignment" toml:"alignment"`
	AutoFit         bool   `json:"autoFit" toml:"autoFit"`
	Sticky          bool   `json:"sticky" toml:"sticky"`
	AllowFullscreen bool   `json:"allowFullscreen" toml:"allowFullscreen"`
	ArrowTolerance  int    `json:"arrowTolerance" toml:"arrowTolerance"`
	Gap             int    `json:"gap" toml:"gap"`
}

// TriggerConfig controls how triggers open their content
type TriggerConfig struct {
	Mode            string `json:"mode" toml:"mode"`
	CloseOnBackdrop bool   `json:"closeOnBackdrop" toml:"closeOnBackdrop"`
}

// LogConfig controls the demo's log file
type LogConfig struct {
	Level string `json:"level" toml:"level"`
	File  string `json:"file" toml:"file"`
}

// File names searched by Find, in order
var fileNames = []string{".floatui.toml", ".floatui.json"}

// bindingNames are the key binding names accepted in Keys
var bindingNames = map[string]bool{
	"open": true, "close": true, "next": true, "previous": true,
	"first": true, "last": true, "select": true, "tab": true, "shiftTab": true,
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Placement: PlacementConfig{
			Preferred:       "below",
			Alignment:       "left",
			AutoFit:         true,
			Sticky:          false,
			AllowFullscreen: true,
			ArrowTolerance:  2,
			Gap:             1,
		},
		Trigger: TriggerConfig{
			Mode:            "click",
			CloseOnBackdrop: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Keys: map[string][]string{},
	}
}

// LoadConfig loads the configuration at path. The format follows the file
// extension. A missing file yields the defaults. The result is merged with
// defaults and validated.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		cfg, err = ParseVersionedConfig(data)
	case ".toml":
		cfg, err = ParseTOMLConfig(data)
	default:
		return nil, &domain.ConfigError{Field: "path", Value: ext, Err: domain.ErrUnsupportedFormat}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	cfg = MergeWithDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find returns the first config file present in dir, or "" when there is
// none
func Find(dir string) string {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load is a convenience function that loads config from current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(Find(cwd))
}

// SaveConfig saves configuration to path with version information, in the
// format given by the extension
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = MarshalVersionedConfig(cfg)
	case ".toml":
		data, err = MarshalTOMLConfig(cfg)
	default:
		return &domain.ConfigError{Field: "path", Value: ext, Err: domain.ErrUnsupportedFormat}
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.Placement.Preferred == "" {
		cfg.Placement.Preferred = defaults.Placement.Preferred
	}
	if cfg.Placement.Alignment == "" {
		cfg.Placement.Alignment = defaults.Placement.Alignment
	}
	if cfg.Trigger.Mode == "" {
		cfg.Trigger.Mode = defaults.Trigger.Mode
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Keys == nil {
		cfg.Keys = defaults.Keys
	}

	return cfg
}

// Validate checks every enumerated field and returns the first problem as a
// *domain.ConfigError
func (c *Config) Validate() error {
	if _, err := domain.ParsePlacement(c.Placement.Preferred); err != nil {
		return err
	}
	if _, err := domain.ParseAlignment(c.Placement.Alignment); err != nil {
		return err
	}
	if _, err := domain.ParseTriggerMode(c.Trigger.Mode); err != nil {
		return err
	}
	if c.Placement.ArrowTolerance < 0 {
		return &domain.ConfigError{
			Field: "placement.arrowTolerance",
			Value: fmt.Sprint(c.Placement.ArrowTolerance),
			Err:   domain.ErrOutOfRange,
		}
	}
	if c.Placement.Gap < 0 {
		return &domain.ConfigError{
			Field: "placement.gap",
			Value: fmt.Sprint(c.Placement.Gap),
			Err:   domain.ErrOutOfRange,
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	for name := range c.Keys {
		if !bindingNames[name] {
			return &domain.ConfigError{Field: "keys", Value: name, Err: domain.ErrUnknownKeyBinding}
		}
	}
	return nil
}

// Request returns the placement request described by the config. Invalid
// values fall back to the defaults; call Validate first to reject them.
func (c *Config) Request() placement.Request {
	preferred, _ := domain.ParsePlacement(c.Placement.Preferred)
	alignment, _ := domain.ParseAlignment(c.Placement.Alignment)
	return placement.Request{
		Preferred: preferred,
		Alignment: alignment,
		AutoFit:   c.Placement.AutoFit,
		Sticky:    c.Placement.Sticky,
	}
}

// TriggerMode returns the configured trigger mode
func (c *Config) TriggerMode() domain.TriggerMode {
	mode, _ := domain.ParseTriggerMode(c.Trigger.Mode)
	return mode
}

// KeyMap returns the default key map with the configured overrides applied
func (c *Config) KeyMap() input.KeyMap {
	keys := input.DefaultKeyMap()
	keys.Override(c.Keys)
	return keys
}

// LogLevel returns the configured slog level
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, &domain.ConfigError{Field: "log.level", Value: s, Err: domain.ErrInvalidLogLevel}
}
