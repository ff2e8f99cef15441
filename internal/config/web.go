package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/topk/pkg/formatting"
	"github.com/JaimeStill/topk/pkg/middleware"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "TOPK_CORS_ENABLED",
	Origins:          "TOPK_CORS_ORIGINS",
	AllowedMethods:   "TOPK_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "TOPK_CORS_ALLOWED_HEADERS",
	AllowCredentials: "TOPK_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "TOPK_CORS_MAX_AGE",
}

// WebConfig holds page routing, upload limits, and CORS settings.
type WebConfig struct {
	BasePath      string                `toml:"base_path"`
	Title         string                `toml:"title"`
	Subtitle      string                `toml:"subtitle"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *WebConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the web config and its nested CORS config.
func (c *WebConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *WebConfig) Merge(overlay *WebConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Subtitle != "" {
		c.Subtitle = overlay.Subtitle
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
}

func (c *WebConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/app"
	}
	if c.Title == "" {
		c.Title = "Dog Breed Identification"
	}
	if c.Subtitle == "" {
		c.Subtitle = "Upload → Predict (Top-K)"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *WebConfig) loadEnv() {
	if v := os.Getenv("TOPK_WEB_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("TOPK_WEB_TITLE"); v != "" {
		c.Title = v
	}
	if v := os.Getenv("TOPK_WEB_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *WebConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 || len(c.BasePath) < 2 {
		return fmt.Errorf("invalid base_path: %q", c.BasePath)
	}
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	return nil
}
