package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "REDIS_URL", "CACHE_TTL", "BATCH_WORKERS", "AUTH_DISABLED", "MAX_BODY_BYTES"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := LoadFiles(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8009" {
		t.Errorf("expected port 8009, got %s", cfg.Port)
	}
	if cfg.RedisURL != "" {
		t.Errorf("expected empty redis URL, got %s", cfg.RedisURL)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %s", cfg.CacheTTL)
	}
	if cfg.BatchWorkers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.BatchWorkers)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("expected 1 MiB body limit, got %d", cfg.MaxBodyBytes)
	}
	if cfg.AuthDisabled {
		t.Error("auth should be enabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("AUTH_DISABLED", "true")

	cfg, err := LoadFiles()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || cfg.CacheTTL != 90*time.Second || cfg.BatchWorkers != 8 || !cfg.AuthDisabled {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CORS_ORIGINS=https://file.example\nPORT=7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("CORS_ORIGINS", "")
	os.Unsetenv("CORS_ORIGINS")
	t.Cleanup(func() { os.Unsetenv("CORS_ORIGINS") })

	cfg, err := LoadFiles(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("environment should win, got port %s", cfg.Port)
	}
	if cfg.CORSOrigins != "https://file.example" {
		t.Errorf("expected origins from file, got %s", cfg.CORSOrigins)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"BATCH_WORKERS", "0"},
		{"BATCH_WORKERS", "many"},
		{"CACHE_TTL", "soon"},
		{"MAX_BODY_BYTES", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadFiles(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
