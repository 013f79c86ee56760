package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
)

// CurrentVersion is the current config schema version
const CurrentVersion = 1

// Migration represents a config migration function
type Migration struct {
	FromVersion int
	ToVersion   int
	Migrate     func(data map[string]interface{}) (map[string]interface{}, error)
}

// migrations is the list of migrations in order
var migrations = []Migration{
	// Migration 0 -> 1: legacy configs were flat, with "placement" and
	// "trigger" as plain strings next to "alignment" and "autoFit".
	{
		FromVersion: 0,
		ToVersion:   1,
		Migrate: func(data map[string]interface{}) (map[string]interface{}, error) {
			pl, _ := data["placement"].(map[string]interface{})
			if pl == nil {
				pl = map[string]interface{}{}
			}
			if s, ok := data["placement"].(string); ok {
				pl["preferred"] = s
			}
			for _, k := range []string{"alignment", "autoFit", "sticky"} {
				if v, ok := data[k]; ok {
					pl[k] = v
					delete(data, k)
				}
			}
			if len(pl) > 0 {
				data["placement"] = pl
			}

			if s, ok := data["trigger"].(string); ok {
				data["trigger"] = map[string]interface{}{"mode": s}
			}

			data["version"] = 1
			return data, nil
		},
	},
}

// ParseVersionedConfig parses JSON config data with version migration
// support. Fields absent from data keep their default values.
func ParseVersionedConfig(data []byte) (*Config, error) {
	// First, parse as raw JSON to get version
	var rawConfig map[string]interface{}
	if err := json.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Detect version (0 if not present = legacy config)
	version := 0
	if v, ok := rawConfig["version"].(float64); ok {
		version = int(v)
	}

	if version > CurrentVersion {
		return nil, fmt.Errorf("config version %d is newer than supported version %d", version, CurrentVersion)
	}
	if version < CurrentVersion {
		var err error
		rawConfig, err = ApplyMigrations(rawConfig, version)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate config: %w", err)
		}
	}
	delete(rawConfig, "version")

	// Re-marshal and unmarshal to get proper types
	migratedData, err := json.Marshal(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal migrated config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(migratedData, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ApplyMigrations applies all migrations from the given version to CurrentVersion
func ApplyMigrations(data map[string]interface{}, fromVersion int) (map[string]interface{}, error) {
	for _, migration := range migrations {
		if migration.FromVersion == fromVersion {
			var err error
			data, err = migration.Migrate(data)
			if err != nil {
				return nil, fmt.Errorf("migration %d -> %d failed: %w",
					migration.FromVersion, migration.ToVersion, err)
			}
			fromVersion = migration.ToVersion
		}
	}

	if fromVersion < CurrentVersion {
		return nil, fmt.Errorf("no migration path from version %d to %d", fromVersion, CurrentVersion)
	}

	return data, nil
}

// MarshalVersionedConfig serializes a config as JSON with version
// information
func MarshalVersionedConfig(cfg *Config) ([]byte, error) {
	cfgData, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	var cfgMap map[string]interface{}
	if err := json.Unmarshal(cfgData, &cfgMap); err != nil {
		return nil, err
	}
	cfgMap["version"] = CurrentVersion

	return json.MarshalIndent(cfgMap, "", "  ")
}

// tomlDocument is the on-disk TOML layout. TOML configs start at version 1,
// so a missing version means the current one.
type tomlDocument struct {
	Version   int                 `toml:"version"`
	Placement PlacementConfig     `toml:"placement"`
	Trigger   TriggerConfig       `toml:"trigger"`
	Log       LogConfig           `toml:"log"`
	Keys      map[string][]string `toml:"keys"`
}

// ParseTOMLConfig parses TOML config data. Unknown keys are rejected.
func ParseTOMLConfig(data []byte) (*Config, error) {
	def := DefaultConfig()
	doc := tomlDocument{
		Placement: def.Placement,
		Trigger:   def.Trigger,
		Log:       def.Log,
		Keys:      def.Keys,
	}

	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undecoded)
	}
	if doc.Version > CurrentVersion {
		return nil, fmt.Errorf("config version %d is newer than supported version %d", doc.Version, CurrentVersion)
	}

	return &Config{
		Placement: doc.Placement,
		Trigger:   doc.Trigger,
		Log:       doc.Log,
		Keys:      doc.Keys,
	}, nil
}

// MarshalTOMLConfig serializes a config as TOML with version information
func MarshalTOMLConfig(cfg *Config) ([]byte, error) {
	doc := tomlDocument{
		Version:   CurrentVersion,
		Placement: cfg.Placement,
		Trigger:   cfg.Trigger,
		Log:       cfg.Log,
		Keys:      cfg.Keys,
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
