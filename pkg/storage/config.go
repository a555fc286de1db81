package storage

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docker/go-units"
)

// Config contains page storage configuration.
type Config struct {
	// BasePath is the root directory holding one directory per document.
	// Default: ".data/books"
	BasePath      string `toml:"base_path"`
	MaxUploadSize string `toml:"max_upload_size"`
	// WriteConcurrency bounds parallel page writes during a split.
	WriteConcurrency int `toml:"write_concurrency"`

	maxUploadSizeVal int64
}

// Env maps environment variable names for storage configuration.
type Env struct {
	BasePath         string
	MaxUploadSize    string
	WriteConcurrency string
}

// MaxUploadSizeBytes returns the parsed upload limit. Valid after Finalize.
func (c *Config) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.WriteConcurrency != 0 {
		c.WriteConcurrency = overlay.WriteConcurrency
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
}

func (c *Config) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/books"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "100MB"
	}
	if c.WriteConcurrency == 0 {
		c.WriteConcurrency = 8
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
	if env.MaxUploadSize != "" {
		if v := os.Getenv(env.MaxUploadSize); v != "" {
			c.MaxUploadSize = v
		}
	}
	if env.WriteConcurrency != "" {
		if v := os.Getenv(env.WriteConcurrency); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.WriteConcurrency = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	if c.WriteConcurrency < 1 {
		return fmt.Errorf("write_concurrency must be positive")
	}

	return nil
}
