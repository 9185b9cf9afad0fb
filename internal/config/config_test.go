package config

import (
	"path/filepath"
	"testing"
)

func TestLoadFlagPrecedence(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load("0.0.0.0", 9000, dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Host != "0.0.0.0" {
		t.Fatalf("unexpected host: %q", cfg.Host)
	}
	if cfg.Port != 9000 {
		t.Fatalf("unexpected port: %d", cfg.Port)
	}
	if cfg.DataDir != dir {
		t.Fatalf("unexpected data dir: %q", cfg.DataDir)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(envPort, "")
	t.Setenv(envDataDir, t.TempDir())

	cfg, err := Load("", 0, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Host != "127.0.0.1" {
		t.Fatalf("unexpected default host: %q", cfg.Host)
	}
	if cfg.Port != 8000 {
		t.Fatalf("unexpected default port: %d", cfg.Port)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(envPort, "9100")
	t.Setenv(envDataDir, t.TempDir())
	t.Setenv(envChatModel, "gpt-4o")
	t.Setenv(envOptimizerModel, "claude-sonnet-4-20250514")
	t.Setenv(envBaseURL, "https://proxy.example.com/v1")

	cfg, err := Load("", 0, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9100 {
		t.Fatalf("env port ignored: %d", cfg.Port)
	}
	if cfg.ChatModel != "gpt-4o" || cfg.OptimizerModel != "claude-sonnet-4-20250514" {
		t.Fatalf("env models ignored: %+v", cfg)
	}
	if cfg.BaseURL != "https://proxy.example.com/v1" {
		t.Fatalf("env base url ignored: %q", cfg.BaseURL)
	}
}

func TestLoadBadPortEnvFallsBack(t *testing.T) {
	t.Setenv(envPort, "not-a-port")
	t.Setenv(envDataDir, t.TempDir())

	cfg, err := Load("", 0, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8000 {
		t.Fatalf("expected fallback port 8000, got %d", cfg.Port)
	}
}

func TestAPIKeyFallback(t *testing.T) {
	t.Setenv(envAPIKey, "")
	t.Setenv(envAPIKeyFallback, "legacy-key")
	t.Setenv(envDataDir, t.TempDir())

	cfg, err := Load("", 0, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "legacy-key" {
		t.Fatalf("expected fallback key, got %q", cfg.APIKey)
	}

	t.Setenv(envAPIKey, "primary-key")
	cfg, err = Load("", 0, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "primary-key" {
		t.Fatalf("primary key must win, got %q", cfg.APIKey)
	}
}

func TestLogDir(t *testing.T) {
	cfg := Config{DataDir: "/tmp/nexusdash-test"}
	if got, want := cfg.LogDir(), filepath.Join("/tmp/nexusdash-test", "logs"); got != want {
		t.Fatalf("LogDir = %q, want %q", got, want)
	}
}
