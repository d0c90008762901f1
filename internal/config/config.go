// Package config loads dramatalk settings from a YAML file, with
// environment variables taking precedence for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings.
type Config struct {
	APIKey            string  `yaml:"api_key"`
	Model             string  `yaml:"model"`
	DatabasePath      string  `yaml:"database_path"`
	PersonaDir        string  `yaml:"persona_dir"`
	Temperature       float64 `yaml:"temperature"`
	DebateTemperature float64 `yaml:"debate_temperature"`
	MaxHistoryTurns   int     `yaml:"max_history_turns"`
	MaxLinesPerBubble int     `yaml:"max_lines_per_bubble"`
	MemoryLimit       int     `yaml:"memory_limit"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".dramatalk")
	return &Config{
		Model:             "gemini-2.0-flash",
		DatabasePath:      filepath.Join(dataDir, "dramatalk.db"),
		PersonaDir:        filepath.Join(dataDir, "personas"),
		Temperature:       0.9,
		DebateTemperature: 0.85,
		MaxHistoryTurns:   30,
		MaxLinesPerBubble: 4,
		MemoryLimit:       5,
	}
}

// LoadFrom merges a YAML file over the defaults. A missing file is not
// an error; the defaults stand.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyFloors()
	return cfg, nil
}

// applyEnv lets environment variables override file values. The API
// key in particular should never live in the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("DRAMATALK_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("DRAMATALK_DB"); v != "" {
		c.DatabasePath = v
	}
}

// applyFloors keeps partially-filled config files from zeroing out the
// knobs that must stay positive.
func (c *Config) applyFloors() {
	d := Default()
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.Temperature <= 0 {
		c.Temperature = d.Temperature
	}
	if c.DebateTemperature <= 0 {
		c.DebateTemperature = d.DebateTemperature
	}
	if c.MaxHistoryTurns <= 0 {
		c.MaxHistoryTurns = d.MaxHistoryTurns
	}
	if c.MaxLinesPerBubble <= 0 {
		c.MaxLinesPerBubble = d.MaxLinesPerBubble
	}
	if c.MemoryLimit <= 0 {
		c.MemoryLimit = d.MemoryLimit
	}
}
