package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"reelview/config"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	mgr := config.NewManager(path)

	settings, err := mgr.Load()
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if settings.Server.Port != 8480 {
		t.Fatalf("unexpected default port %d", settings.Server.Port)
	}
	if settings.Cache.TrendingTTLMinutes != 15 {
		t.Fatalf("unexpected trending TTL %d", settings.Cache.TrendingTTLMinutes)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected settings file to be created: %v", err)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"server":{"port":9000}}`), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	settings, err := config.NewManager(path).Load()
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if settings.Server.Port != 9000 {
		t.Fatalf("expected configured port to survive, got %d", settings.Server.Port)
	}
	if settings.Catalog.BaseURL == "" {
		t.Fatal("expected catalog base URL default to be applied")
	}
	if settings.Streaming.EmbedBaseURL == "" {
		t.Fatal("expected embed base URL default to be applied")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	mgr := config.NewManager(path)

	settings := config.DefaultSettings()
	settings.Catalog.AccessToken = "token-123"

	if err := mgr.Save(settings); err != nil {
		t.Fatalf("save returned error: %v", err)
	}

	loaded, err := mgr.Load()
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if loaded.Catalog.AccessToken != "token-123" {
		t.Fatalf("unexpected access token %q", loaded.Catalog.AccessToken)
	}
}
