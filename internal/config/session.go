package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvSessionCookieName    = "TOPK_SESSION_COOKIE_NAME"
	EnvSessionIdleTimeout   = "TOPK_SESSION_IDLE_TIMEOUT"
	EnvSessionSweepInterval = "TOPK_SESSION_SWEEP_INTERVAL"
)

// SessionConfig holds per-visitor session settings.
type SessionConfig struct {
	CookieName    string `toml:"cookie_name"`
	IdleTimeout   string `toml:"idle_timeout"`
	SweepInterval string `toml:"sweep_interval"`
}

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *SessionConfig) IdleTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	return d
}

// SweepIntervalDuration returns SweepInterval as a time.Duration.
func (c *SessionConfig) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SessionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *SessionConfig) Merge(overlay *SessionConfig) {
	if overlay.CookieName != "" {
		c.CookieName = overlay.CookieName
	}
	if overlay.IdleTimeout != "" {
		c.IdleTimeout = overlay.IdleTimeout
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
}

func (c *SessionConfig) loadDefaults() {
	if c.CookieName == "" {
		c.CookieName = "topk_session"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "30m"
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "1m"
	}
}

func (c *SessionConfig) loadEnv() {
	if v := os.Getenv(EnvSessionCookieName); v != "" {
		c.CookieName = v
	}
	if v := os.Getenv(EnvSessionIdleTimeout); v != "" {
		c.IdleTimeout = v
	}
	if v := os.Getenv(EnvSessionSweepInterval); v != "" {
		c.SweepInterval = v
	}
}

func (c *SessionConfig) validate() error {
	if d, err := time.ParseDuration(c.IdleTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid idle_timeout: %q", c.IdleTimeout)
	}
	if d, err := time.ParseDuration(c.SweepInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid sweep_interval: %q", c.SweepInterval)
	}
	return nil
}
