package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/bookshelf/internal/config"
)

const baseConfig = `
[database]
name = "bookshelf"
user = "bookshelf"

[storage]
base_path = "/var/lib/books"
`

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)
	t.Setenv(config.EnvServiceEnv, "")
	return dir
}

func TestLoad_AppliesDefaults(t *testing.T) {
	setup(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ShutdownTimeoutDuration().String() != "30s" {
		t.Errorf("ShutdownTimeout = %q, want 30s", cfg.ShutdownTimeout)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Logging.Level == "" {
		t.Error("Logging.Level not set to default")
	}
	if cfg.Storage.BasePath != "/var/lib/books" {
		t.Errorf("Storage.BasePath = %q", cfg.Storage.BasePath)
	}
	if cfg.Storage.MaxUploadSizeBytes() == 0 {
		t.Error("Storage upload limit not finalized")
	}
	if cfg.Notify.SendBuffer == 0 {
		t.Error("Notify.SendBuffer not set to default")
	}
	if cfg.API.BasePath != "/api" || cfg.API.OpenAPI.Title == "" {
		t.Errorf("API defaults not applied: %+v", cfg.API)
	}
}

func TestLoad_WithOverlay(t *testing.T) {
	dir := setup(t)
	writeConfig(t, dir, "config.test.toml", `
shutdown_timeout = "60s"

[server]
port = 9090

[storage]
write_concurrency = 2
`)
	t.Setenv(config.EnvServiceEnv, "test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() with overlay failed: %v", err)
	}

	if cfg.ShutdownTimeout != "60s" {
		t.Errorf("ShutdownTimeout = %q, want 60s", cfg.ShutdownTimeout)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Storage.WriteConcurrency != 2 || cfg.Storage.BasePath != "/var/lib/books" {
		t.Errorf("storage overlay = %+v", cfg.Storage)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setup(t)
	t.Setenv(config.EnvServiceShutdownTimeout, "120s")
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOGGING_LEVEL", "debug")
	t.Setenv("STORAGE_MAX_UPLOAD_SIZE", "5MB")
	t.Setenv("NOTIFY_ALLOWED_ORIGINS", "http://a.local, http://b.local")
	t.Setenv("API_BASE_PATH", "/v1")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ShutdownTimeout != "120s" {
		t.Errorf("ShutdownTimeout = %q", cfg.ShutdownTimeout)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Storage.MaxUploadSizeBytes() != 5*1000*1000 {
		t.Errorf("upload limit = %d", cfg.Storage.MaxUploadSizeBytes())
	}
	if len(cfg.Notify.AllowedOrigins) != 2 || cfg.Notify.AllowedOrigins[1] != "http://b.local" {
		t.Errorf("AllowedOrigins = %v", cfg.Notify.AllowedOrigins)
	}
	if cfg.API.BasePath != "/v1" {
		t.Errorf("API.BasePath = %q", cfg.API.BasePath)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
	}{
		{"invalid duration", `shutdown_timeout = "invalid"`},
		{"invalid port", "[server]\nport = 70000"},
		{"invalid log level", "[logging]\nlevel = \"loud\""},
		{"invalid upload size", "[storage]\nmax_upload_size = \"huge\""},
		{"malformed toml", "[server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setup(t)
			writeConfig(t, dir, "config.bad.toml", tt.overlay)
			t.Setenv(config.EnvServiceEnv, "bad")

			if _, err := config.Load(); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := config.Load(); err == nil {
		t.Error("Load() succeeded without config.toml")
	}
}

func TestServerConfig_Merge(t *testing.T) {
	base := &config.ServerConfig{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  "30s",
		WriteTimeout: "30s",
	}

	base.Merge(&config.ServerConfig{Port: 9090, WriteTimeout: "60s"})

	if base.Host != "localhost" || base.ReadTimeout != "30s" {
		t.Errorf("unset overlay fields changed base: %+v", base)
	}
	if base.Port != 9090 || base.WriteTimeout != "60s" {
		t.Errorf("overlay not applied: %+v", base)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"localhost", 3000, "localhost:3000"},
	}

	for _, tt := range tests {
		cfg := &config.ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}
