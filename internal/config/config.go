// Package config assembles runtime settings from built-in defaults, an
// optional HCL file, the environment (including a .env file) and flags.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"

	"tagcalc/internal/logging"
	"tagcalc/internal/source"
	"tagcalc/internal/suggest"
)

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = "tagcalc.hcl"

// Config holds everything the application needs to start.
type Config struct {
	SourceURL     string
	SourceTimeout time.Duration
	Debounce      time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		SourceURL:     source.DefaultURL,
		SourceTimeout: 10 * time.Second,
		Debounce:      suggest.DefaultDelay,
		LogLevel:      "info",
		LogFormat:     "text",
		LogFile:       "tagcalc.log",
	}
}

// Load builds a Config. path names an HCL file; an empty path reads
// DefaultFile when it exists. A .env file in the working directory is
// loaded first (a missing one is fine) so both the HCL env() function and
// the TAGCALC_* overrides can see it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeEnv applies TAGCALC_* variables.
func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("TAGCALC_SOURCE_URL", &c.SourceURL)
	str("TAGCALC_LOG_LEVEL", &c.LogLevel)
	str("TAGCALC_LOG_FORMAT", &c.LogFormat)
	str("TAGCALC_LOG_FILE", &c.LogFile)
	if err := dur("TAGCALC_SOURCE_TIMEOUT", &c.SourceTimeout); err != nil {
		return err
	}
	return dur("TAGCALC_DEBOUNCE", &c.Debounce)
}

// Validate checks the merged settings.
func (c *Config) Validate() error {
	if c.SourceURL == "" {
		return fmt.Errorf("source url cannot be empty")
	}
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("source timeout must be positive, got %s", c.SourceTimeout)
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", c.Debounce)
	}
	if !slices.Contains(logging.Levels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q: must be one of %v", c.LogLevel, logging.Levels)
	}
	if !slices.Contains(logging.Formats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q: must be one of %v", c.LogFormat, logging.Formats)
	}
	return nil
}
