package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/topk/internal/endpoint"
)

const (
	EnvClassifierAPIBase     = "TOPK_API_BASE"
	EnvClassifierTimeout     = "TOPK_CLASSIFIER_TIMEOUT"
	EnvClassifierMaxInFlight = "TOPK_CLASSIFIER_MAX_IN_FLIGHT"
)

// ClassifierConfig holds prediction backend settings.
// APIBase is the runtime override for the backend base URL; when empty the
// base is resolved per session from cookies, the build value, or the default.
type ClassifierConfig struct {
	APIBase     string `toml:"api_base"`
	Timeout     string `toml:"timeout"`
	MaxInFlight int    `toml:"max_in_flight"`
}

// TimeoutDuration returns Timeout as a time.Duration. Empty means no timeout.
func (c *ClassifierConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ClassifierConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ClassifierConfig) Merge(overlay *ClassifierConfig) {
	if overlay.APIBase != "" {
		c.APIBase = overlay.APIBase
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxInFlight != 0 {
		c.MaxInFlight = overlay.MaxInFlight
	}
}

func (c *ClassifierConfig) loadDefaults() {
	if c.MaxInFlight == 0 {
		c.MaxInFlight = 8
	}
}

func (c *ClassifierConfig) loadEnv() {
	if v := os.Getenv(EnvClassifierAPIBase); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv(EnvClassifierTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvClassifierMaxInFlight); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxInFlight = n
		}
	}
}

func (c *ClassifierConfig) validate() error {
	if c.APIBase != "" && !endpoint.Valid(c.APIBase) {
		return fmt.Errorf("invalid api_base: %q", c.APIBase)
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
	}
	if c.MaxInFlight < 1 {
		return fmt.Errorf("invalid max_in_flight: %d", c.MaxInFlight)
	}
	return nil
}
