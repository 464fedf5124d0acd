package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Compass   CompassConfig   `yaml:"compass"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how the MCP server is exposed: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// CompassConfig overrides compass derivation thresholds. Zero values fall
// back to the defaults.
type CompassConfig struct {
	AlignedPercent    int `yaml:"aligned_percent"`
	DriftingPercent   int `yaml:"drifting_percent"`
	FlowingMilestones int `yaml:"flowing_milestones"`
	FlowingResolved   int `yaml:"flowing_resolved"`
	ChaosHeavy        int `yaml:"chaos_heavy"`
	ChaosModerate     int `yaml:"chaos_moderate"`
	HotBlockedCount   int `yaml:"hot_blocked_count"`
	HotAgeDays        int `yaml:"hot_age_days"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "continuum.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("CONTINUUM_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("CONTINUUM_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CONTINUUM_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CONTINUUM_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("CONTINUUM_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("CONTINUUM_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("CONTINUUM_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if cfg.Transport.Mode != "stdio" && cfg.Transport.Mode != "http" {
		return Config{}, fmt.Errorf("invalid transport mode %q", cfg.Transport.Mode)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
