package notify

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains notification fanout configuration.
type Config struct {
	// SendBuffer is the number of events queued per connection before
	// further events for that connection are dropped.
	SendBuffer     int      `toml:"send_buffer"`
	WriteTimeout   string   `toml:"write_timeout"`
	PingInterval   string   `toml:"ping_interval"`
	MaxMessageSize int64    `toml:"max_message_size"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Env maps environment variable names for notification configuration.
type Env struct {
	SendBuffer     string
	WriteTimeout   string
	PingInterval   string
	MaxMessageSize string
	AllowedOrigins string
}

// WriteTimeoutDuration parses and returns the write timeout as a time.Duration.
func (c *Config) WriteTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	return d
}

// PingIntervalDuration parses and returns the ping interval as a time.Duration.
func (c *Config) PingIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PingInterval)
	return d
}

// PongWait is how long a connection may stay silent before it is closed.
// It exceeds the ping interval so a healthy peer always answers in time.
func (c *Config) PongWait() time.Duration {
	return c.PingIntervalDuration() * 10 / 9
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.SendBuffer != 0 {
		c.SendBuffer = overlay.SendBuffer
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
	if overlay.PingInterval != "" {
		c.PingInterval = overlay.PingInterval
	}
	if overlay.MaxMessageSize != 0 {
		c.MaxMessageSize = overlay.MaxMessageSize
	}
	if overlay.AllowedOrigins != nil {
		c.AllowedOrigins = overlay.AllowedOrigins
	}
}

func (c *Config) loadDefaults() {
	if c.SendBuffer == 0 {
		c.SendBuffer = 16
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "10s"
	}
	if c.PingInterval == "" {
		c.PingInterval = "54s"
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = 4096
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.SendBuffer); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SendBuffer = n
		}
	}
	if v := getenv(env.WriteTimeout); v != "" {
		c.WriteTimeout = v
	}
	if v := getenv(env.PingInterval); v != "" {
		c.PingInterval = v
	}
	if v := getenv(env.MaxMessageSize); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxMessageSize = n
		}
	}
	if v := getenv(env.AllowedOrigins); v != "" {
		origins := strings.Split(v, ",")
		c.AllowedOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, trimmed)
			}
		}
	}
}

func (c *Config) validate() error {
	if c.SendBuffer < 1 {
		return fmt.Errorf("send_buffer must be positive")
	}
	if d, err := time.ParseDuration(c.WriteTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid write_timeout: %q", c.WriteTimeout)
	}
	if d, err := time.ParseDuration(c.PingInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid ping_interval: %q", c.PingInterval)
	}
	if c.MaxMessageSize < 1 {
		return fmt.Errorf("max_message_size must be positive")
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
