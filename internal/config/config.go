package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	DataDir       string `json:"data_dir"`
	LogLevel      string `json:"log_level"`
	ListenAddr    string `json:"listen_addr"`
	HistoryWindow int    `json:"history_window"`
	SaveDebounce  int    `json:"save_debounce_ms"`
	Retention     struct {
		Schedule string `json:"schedule"`
		MaxDays  int    `json:"max_days"`
	} `json:"retention"`
	APIKeys map[string]string `json:"api_keys"`
}

// envKeys maps provider ids to their conventional API-key variables.
var envKeys = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"groq":      "GROQ_API_KEY",
	"deepseek":  "DEEPSEEK_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir:       filepath.Join(os.Getenv("HOME"), ".privai"),
		LogLevel:      "info",
		ListenAddr:    "127.0.0.1:8090",
		HistoryWindow: 10,
		SaveDebounce:  1000,
		APIKeys:       map[string]string{},
	}

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if dataDir := os.Getenv("PRIVAI_DATA_DIR"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if cfg.APIKeys == nil {
		cfg.APIKeys = map[string]string{}
	}
	for provider, envKey := range envKeys {
		if key := os.Getenv(envKey); key != "" {
			cfg.APIKeys[provider] = key
		}
	}

	return cfg, nil
}

func writeDefaults(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename default config: %w", err)
	}
	return nil
}
