package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source kinds accepted in source.kind.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceFile     = "file"
	SourceSample   = "sample"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Source struct {
		Kind         string `yaml:"kind"`
		FetchTimeout string `yaml:"fetch_timeout"`
	} `yaml:"source"`
	TriviaAPI struct {
		BaseURL      string   `yaml:"base_url"`
		Limit        int      `yaml:"limit"`
		Categories   []string `yaml:"categories"`
		Difficulties []string `yaml:"difficulties"`
		Timeout      string   `yaml:"timeout"`
	} `yaml:"trivia_api"`
	Postgres struct {
		URL         string `yaml:"url"`
		QuestionSet string `yaml:"question_set"`
	} `yaml:"postgres"`
	File struct {
		Path string `yaml:"path"`
	} `yaml:"file"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
}

// Load reads YAML config from path. A missing file yields defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = SourceHTTP
	}
	if c.Postgres.QuestionSet == "" {
		c.Postgres.QuestionSet = "default"
	}
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
