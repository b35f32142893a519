package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HANAFI_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hanafi.yaml")
	body := []byte("http_port: \"9000\"\npage_size: 25\nsite_url: https://example.org/\ncors_allowed_origins:\n  - https://a.example\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HANAFI_CONFIG", path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("SEARCH_CACHE_TTL", "60")
	t.Setenv("ENABLE_SEARCH_SYNC", "off")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "9100" {
		t.Fatalf("expected env to override port, got %s", cfg.HTTPPort)
	}
	if cfg.PageSize != 25 {
		t.Fatalf("expected page size from file, got %d", cfg.PageSize)
	}
	if cfg.SiteURL != "https://example.org" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.SiteURL)
	}
	if cfg.SearchCacheTTL != time.Minute {
		t.Fatalf("expected 60s cache ttl, got %s", cfg.SearchCacheTTL)
	}
	if cfg.EnableSearchSync {
		t.Fatalf("expected search sync disabled")
	}
	if diff := cmp.Diff([]string{"https://a.example"}, cfg.CORSAllowedOrigins); diff != "" {
		t.Fatalf("origins mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalidPageSize(t *testing.T) {
	t.Setenv("HANAFI_CONFIG", "")
	t.Setenv("PAGE_SIZE", "zero")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid PAGE_SIZE")
	}
}
