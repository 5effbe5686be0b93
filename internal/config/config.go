package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Scoring struct {
		BaseURL string `yaml:"baseUrl"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"apiKey"`
	} `yaml:"scoring"`
	Snapshot struct {
		Dir      string `yaml:"dir"`
		Interval string `yaml:"interval"`
	} `yaml:"snapshot"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		SetID string `yaml:"setId"`
		TTL   string `yaml:"ttl"`
	} `yaml:"questions"`
	Timer struct {
		// Source is "server" (internal coordinator drives the countdown) or
		// "client" (transport tick commands drive it, the legacy model).
		Source string `yaml:"source"`
	} `yaml:"timer"`
}

// Load reads YAML config from path and applies environment overrides for
// secrets that should not live in the file.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Scoring.APIKey = key
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// ServerTimer reports whether the internal timer coordinator should run.
func (c Config) ServerTimer() bool {
	return c.Timer.Source != "client"
}
