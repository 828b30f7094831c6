package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Exchange struct {
	APIKey       string `json:"api_key" yaml:"api_key" split_words:"true"`
	BaseURL      string `json:"base_url" yaml:"base_url" split_words:"true"`
	BaseCurrency string `json:"base_currency" yaml:"base_currency" split_words:"true"`
	TimeoutSec   int    `json:"timeout_sec" yaml:"timeout_sec" split_words:"true"`
}

type Cache struct {
	Path   string `json:"path" yaml:"path"`
	TTLSec int    `json:"ttl_sec" yaml:"ttl_sec" split_words:"true"`
}

type Log struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

type Config struct {
	Exchange Exchange `json:"exchange" yaml:"exchange" envconfig:"EXCHANGE"`
	Cache    Cache    `json:"cache" yaml:"cache" envconfig:"RATES_CACHE"`
	Log      Log      `json:"log" yaml:"log" envconfig:"LOG"`
}

func Default() Config {
	return Config{
		Exchange: Exchange{
			BaseURL:      "https://v6.exchangerate-api.com/v6",
			BaseCurrency: "USD",
			TimeoutSec:   10,
		},
		Cache: Cache{Path: "rates_cache.json", TTLSec: 24 * 60 * 60},
		Log:   Log{Level: "info", Format: "text"},
	}
}

// defaultFiles are probed in order when no config path is given.
var defaultFiles = []string{"config.json", "config.yaml", "config.yml"}

// Load reads a JSON or YAML config from path. If path is empty the default
// file names are probed; a missing file means defaults. A .env file in the
// working directory is loaded next, then environment variables override
// individual fields.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		for _, name := range defaultFiles {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := decode(path, b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := loadDotEnv(".env"); err != nil {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("env overrides: %w", err)
	}
	return cfg, nil
}

func decode(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

// loadDotEnv loads name into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(name string) error {
	if _, err := os.Stat(name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(name)
}

// Validate rejects values the converter cannot work with.
func (c *Config) Validate() error {
	if c.Exchange.BaseURL == "" {
		return fmt.Errorf("exchange.base_url is required")
	}
	if code := strings.TrimSpace(c.Exchange.BaseCurrency); len(code) != 3 {
		return fmt.Errorf("exchange.base_currency must be a 3-letter code, got %q", c.Exchange.BaseCurrency)
	}
	if c.Exchange.TimeoutSec <= 0 {
		return fmt.Errorf("exchange.timeout_sec must be positive")
	}
	if c.Cache.Path == "" {
		return fmt.Errorf("cache.path is required")
	}
	if c.Cache.TTLSec <= 0 {
		return fmt.Errorf("cache.ttl_sec must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
