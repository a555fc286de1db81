package infrastructure_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/bookshelf/internal/config"
	"github.com/JaimeStill/bookshelf/internal/infrastructure"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Name = "bookshelf"
	cfg.Database.User = "bookshelf"
	cfg.Storage.BasePath = t.TempDir()
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	return cfg
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(testConfig(t))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if infra.Lifecycle == nil || infra.Logger == nil || infra.Database == nil || infra.Storage == nil {
		t.Fatal("core systems not initialized")
	}
	if infra.Formats == nil || infra.Locks == nil || infra.Hub == nil {
		t.Fatal("document systems not initialized")
	}
	if !infra.Formats.Supported(".pdf") {
		t.Error("default format registry does not support .pdf")
	}
	if infra.Database.Ready() {
		t.Error("database reports ready before Start")
	}
}

func TestShutdown_ClosesHub(t *testing.T) {
	infra, err := infrastructure.New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	if err := infra.Hub.Start(infra.Lifecycle); err != nil {
		t.Fatal(err)
	}
	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}

	if _, err := infra.Hub.Connect(); err == nil {
		t.Error("hub accepted a connection after shutdown")
	}
}
