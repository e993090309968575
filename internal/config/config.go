package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file inside the state directory
const ConfigFileName = "config.yaml"

// HistoryConfig represents run history ledger configuration
type HistoryConfig struct {
	// Enabled records every run and copy in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database, relative to the state directory
	DBPath string `yaml:"db_path"`

	// KeepRuns is the number of most recent runs to keep (0 = keep all)
	KeepRuns int `yaml:"keep_runs"`
}

// Config represents aggregate configuration options.
// The inclusion and exclusion sets are fixed and intentionally absent here.
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// FileLog enables per-run log files in LogDir
	FileLog bool `yaml:"file_log"`

	// LogDir is the directory where run logs are written, relative to the state directory
	LogDir string `yaml:"log_dir"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		FileLog:  true,
		LogDir:   "logs",
		History: HistoryConfig{
			Enabled:  true,
			DBPath:   "history.db",
			KeepRuns: 100,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlCfg Config
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Booleans default to true, so presence is detected on the raw map
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if _, exists := rawMap["file_log"]; exists {
		cfg.FileLog = yamlCfg.FileLog
	}

	if historySection, exists := rawMap["history"]; exists && historySection != nil {
		historyMap, _ := historySection.(map[string]interface{})

		if _, exists := historyMap["enabled"]; exists {
			cfg.History.Enabled = yamlCfg.History.Enabled
		}
		if _, exists := historyMap["db_path"]; exists {
			cfg.History.DBPath = yamlCfg.History.DBPath
		}
		if _, exists := historyMap["keep_runs"]; exists {
			cfg.History.KeepRuns = yamlCfg.History.KeepRuns
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from config.yaml in the given state directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(stateDir string) (*Config, error) {
	return LoadConfig(filepath.Join(stateDir, ConfigFileName))
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel *string, noHistory *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if noHistory != nil && *noHistory {
		c.History.Enabled = false
	}
}

// ResolvePaths makes relative LogDir and History.DBPath absolute under stateDir
func (c *Config) ResolvePaths(stateDir string) {
	if c.LogDir != "" && !filepath.IsAbs(c.LogDir) {
		c.LogDir = filepath.Join(stateDir, c.LogDir)
	}
	if c.History.DBPath != "" && c.History.DBPath != ":memory:" && !filepath.IsAbs(c.History.DBPath) {
		c.History.DBPath = filepath.Join(stateDir, c.History.DBPath)
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.FileLog && c.LogDir == "" {
		return fmt.Errorf("log_dir cannot be empty when file_log is enabled")
	}

	if c.History.Enabled {
		if c.History.DBPath == "" {
			return fmt.Errorf("history.db_path cannot be empty when history is enabled")
		}
		if c.History.KeepRuns < 0 {
			return fmt.Errorf("history.keep_runs must be >= 0, got %d", c.History.KeepRuns)
		}
	}

	return nil
}
