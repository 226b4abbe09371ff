package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultRaw []byte

type Config struct {
	Geocoding       Geocoding   `yaml:"geocoding"`
	Forecast        Forecast    `yaml:"forecast"`
	Gemini          Gemini      `yaml:"gemini"`
	Geolocation     Geolocation `yaml:"geolocation"`
	DefaultLocation Location    `yaml:"defaultLocation"`
	Search          Search      `yaml:"search"`
	Server          Server      `yaml:"server"`
	Log             Log         `yaml:"log"`
}

type Geocoding struct {
	URL       string        `yaml:"url"`
	Count     int           `yaml:"count"`
	Language  string        `yaml:"language"`
	Timeout   time.Duration `yaml:"timeout"`
	CacheTTL  time.Duration `yaml:"cacheTTL"`
	RateLimit RateLimit     `yaml:"rateLimit"`
}

type Forecast struct {
	URL     string        `yaml:"url"`
	Days    int           `yaml:"days"`
	Timeout time.Duration `yaml:"timeout"`
}

type Gemini struct {
	URL       string        `yaml:"url"`
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"apiKey"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit RateLimit     `yaml:"rateLimit"`
}

type Geolocation struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// RateLimit is expressed in requests per second. A zero Rps disables limiting.
type RateLimit struct {
	Rps   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type Location struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Country   string  `yaml:"country"`
}

type Search struct {
	Debounce time.Duration `yaml:"debounce"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load parses the embedded defaults, or the file at path when it is not empty,
// then applies .env and environment overrides.
func Load(path string) (Config, error) {
	raw := defaultRaw
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		raw = b
	}

	cfg, err := Parse(raw)
	if err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	return cfg, cfg.Validate()
}

// Parse decodes raw YAML on top of the embedded defaults, so a partial file
// only needs to name the keys it changes.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultRaw, &cfg); err != nil {
		return Config{}, fmt.Errorf("embedded config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	} else if key := os.Getenv("API_KEY"); key != "" && c.Gemini.APIKey == "" {
		c.Gemini.APIKey = key
	}
	if level := os.Getenv("STRATOS_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if file := os.Getenv("STRATOS_LOG_FILE"); file != "" {
		c.Log.File = file
	}
	if addr := os.Getenv("STRATOS_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

func (c Config) Validate() error {
	var errs []error
	for name, url := range map[string]string{
		"geocoding.url":   c.Geocoding.URL,
		"forecast.url":    c.Forecast.URL,
		"gemini.url":      c.Gemini.URL,
		"geolocation.url": c.Geolocation.URL,
	} {
		if strings.TrimSpace(url) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}
	if c.Forecast.Days < 8 {
		errs = append(errs, fmt.Errorf("forecast.days must be >= 8, got %d", c.Forecast.Days))
	}
	if c.Geocoding.Count < 1 || c.Geocoding.Count > 5 {
		errs = append(errs, fmt.Errorf("geocoding.count must be within 1..5, got %d", c.Geocoding.Count))
	}
	if c.Search.Debounce <= 0 {
		errs = append(errs, errors.New("search.debounce must be > 0"))
	}
	return errors.Join(errs...)
}
