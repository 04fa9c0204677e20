package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Save writes the config atomically, creating the parent directory.
func Save(path string, cfg *Config) error {
	return writeDefaults(path, cfg)
}

// ToMap converts a Config to a nested map via its JSON encoding.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListValues returns the config as a flat dot-keyed map, masking secrets
// when mask is set.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, err
	}
	flat := Flatten(m)
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue loads the config file and returns the value at the
// dot-separated key.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	flat, err := ListValues(cfg, false)
	if err != nil {
		return nil, err
	}
	v, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return v, nil
}

// SetValue sets a dot-separated key in the config file. The raw value is
// parsed as JSON when possible (numbers, booleans) and stored as a string
// otherwise. The file must already exist or be creatable.
func SetValue(path, key, raw string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}

	flat := Flatten(m)
	flat[key] = value
	nested := Unflatten(flat)

	out, err := json.MarshalIndent(nested, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	out = append(out, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, out, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
