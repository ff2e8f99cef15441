package storage

import (
	"fmt"
	"os"

	"github.com/JaimeStill/topk/pkg/formatting"
)

// Config holds in-memory blob store limits.
type Config struct {
	MaxSize string `toml:"max_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	MaxSize string
}

// MaxSizeBytes parses MaxSize. Zero means unlimited.
func (c *Config) MaxSizeBytes() (int64, error) {
	if c.MaxSize == "" {
		return 0, nil
	}
	return formatting.ParseBytes(c.MaxSize)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.MaxSize != "" {
		c.MaxSize = overlay.MaxSize
	}
}

func (c *Config) loadDefaults() {
	if c.MaxSize == "" {
		c.MaxSize = "512MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxSize != "" {
		if v := os.Getenv(env.MaxSize); v != "" {
			c.MaxSize = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := c.MaxSizeBytes(); err != nil {
		return fmt.Errorf("invalid max_size: %w", err)
	}
	return nil
}
