// Package config loads the newswatch configuration from a YAML file
// with environment-variable overrides for credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration lets YAML carry human-readable values like "30s". Plain
// integers are read as nanoseconds, matching time.Duration itself.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var asString string
	if err := value.Decode(&asString); err == nil {
		parsed, err := time.ParseDuration(asString)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", asString, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var asInt int64
	if err := value.Decode(&asInt); err != nil {
		return fmt.Errorf("invalid duration value: %s", value.Value)
	}
	*d = Duration(asInt)
	return nil
}

// Config is the full runtime configuration.
type Config struct {
	// Search API credentials. Required; the run aborts before any
	// network activity when they are missing.
	APIKey   string `yaml:"api_key"`
	EngineID string `yaml:"engine_id"`

	// Keywords to monitor. Required.
	Keywords []string `yaml:"keywords"`

	// Feeds maps source display names to feed URLs.
	Feeds map[string]string `yaml:"feeds"`

	// DateRestrict is the search recency window, in Custom Search
	// dateRestrict syntax (e.g. "d1" for one day).
	DateRestrict string `yaml:"date_restrict"`

	SeenURLsPath string `yaml:"seen_urls_path"`
	ArchivePath  string `yaml:"archive_path"`

	Concurrency  int      `yaml:"concurrency"`
	FetchTimeout Duration `yaml:"fetch_timeout"`

	Email Email `yaml:"email"`
}

// Email configures the SMTP notifier. When Host is empty notifications
// are logged instead of mailed.
type Email struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Password string `yaml:"password"`
	To       string `yaml:"to"`
}

// Default returns the built-in defaults applied before file and
// environment values.
func Default() *Config {
	return &Config{
		DateRestrict: "d1",
		SeenURLsPath: "data/seen_urls.txt",
		ArchivePath:  "data/articles.db",
		Concurrency:  5,
		FetchTimeout: Duration(20 * time.Second),
		Email:        Email{Port: 587},
	}
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. A missing file is not an error; environment
// variables alone can configure a run.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Environment-only configuration.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides file values with environment variables. Secrets
// usually arrive this way rather than through the YAML file.
func (c *Config) applyEnv() {
	if v := os.Getenv("API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("CSE_ID"); v != "" {
		c.EngineID = v
	}
	if v := os.Getenv("EMAIL_FROM"); v != "" {
		c.Email.From = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv("EMAIL_TO"); v != "" {
		c.Email.To = v
	}
}

// Validate checks the configuration a run cannot start without.
func (c *Config) Validate() error {
	if c.APIKey == "" || c.EngineID == "" {
		return errors.New("search API credentials missing: set api_key/engine_id or the API_KEY/CSE_ID environment variables")
	}
	if len(c.Keywords) == 0 {
		return errors.New("no keywords configured")
	}

	return nil
}
