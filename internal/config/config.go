package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		URL        string `yaml:"url"`
		PlayerPath string `yaml:"playerPath"`
	} `yaml:"server"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSize    int    `yaml:"maxSize"`    // megabytes
		MaxBackups int    `yaml:"maxBackups"` // rotated files kept
		MaxAge     int    `yaml:"maxAge"`     // days
		Console    bool   `yaml:"console"`
	} `yaml:"log"`
	Quiz struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"quiz"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.URL = "http://localhost:8080"
	cfg.Log.Level = "info"
	cfg.Log.MaxSize = 10
	cfg.Log.MaxBackups = 5
	cfg.Log.MaxAge = 30
	return cfg
}

// Load reads YAML config from path. A missing file yields the defaults so
// the CLI works out of the box.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty or
// malformed.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
