package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a cycletrace run.
type Config struct {
	General  GeneralConfig  `yaml:"general"`
	Input    InputConfig    `yaml:"input"`
	Report   ReportConfig   `yaml:"report"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

type GeneralConfig struct {
	Verbose  bool   `yaml:"verbose"`
	LogLevel string `yaml:"log_level"` // trace|debug|info|warn|error
}

type InputConfig struct {
	Path string `yaml:"path"`
}

type ReportConfig struct {
	// OutputPath overrides the timestamped default report filename.
	OutputPath string `yaml:"output_path"`
	// ResolveWallets renders wallet addresses instead of vertex indices.
	ResolveWallets bool `yaml:"resolve_wallets"`
}

type SnapshotConfig struct {
	// Path enables a gob snapshot of the built graph after the run.
	Path string `yaml:"path"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = "info"
	}
}
