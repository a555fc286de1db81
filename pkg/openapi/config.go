package openapi

import "os"

// Config holds the document metadata published in the OpenAPI info block.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Version     string `toml:"version"`
}

// ConfigEnv maps environment variable names for OpenAPI configuration.
type ConfigEnv struct {
	Title       string
	Description string
	Version     string
}

// Finalize applies defaults and loads environment overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		setFromEnv(&c.Title, env.Title)
		setFromEnv(&c.Description, env.Description)
		setFromEnv(&c.Version, env.Version)
	}
	return nil
}

// Merge applies non-empty overlay values.
func (c *Config) Merge(overlay *Config) {
	for _, f := range []struct {
		dst *string
		v   string
	}{
		{&c.Title, overlay.Title},
		{&c.Description, overlay.Description},
		{&c.Version, overlay.Version},
	} {
		if f.v != "" {
			*f.dst = f.v
		}
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Bookshelf API"
	}
	if c.Description == "" {
		c.Description = "Paginated book storage: upload, page retrieval, page replacement, and change notifications."
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func setFromEnv(dst *string, name string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
