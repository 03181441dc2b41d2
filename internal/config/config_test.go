package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
	if cfg.TokenPath != filepath.Join(dir, TokenFile) {
		t.Errorf("TokenPath = %q, want %q", cfg.TokenPath, filepath.Join(dir, TokenFile))
	}
	if cfg.Debug || cfg.OTELEnabled {
		t.Error("debug/otel enabled by default")
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	content := "base_url: https://tasks.example.com\ndebug: true\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "https://tasks.example.com" {
		t.Errorf("BaseURL = %q, want value from file", cfg.BaseURL)
	}
	if !cfg.Debug {
		t.Error("Debug not read from file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := "base_url: https://tasks.example.com\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("TASKMAN_BASE_URL", "https://override.example.com")
	t.Setenv("TASKMAN_DEBUG", "1")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "https://override.example.com" {
		t.Errorf("BaseURL = %q, want env override", cfg.BaseURL)
	}
	if !cfg.Debug {
		t.Error("TASKMAN_DEBUG=1 not honored")
	}
}

func TestLoadInvalidYAMLFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("base_url: [unterminated"), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected Load to fail on invalid YAML")
	}
}

func TestTokenPathOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKMAN_TOKEN_PATH", "/tmp/custom-token")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TokenPath != "/tmp/custom-token" {
		t.Errorf("TokenPath = %q, want override", cfg.TokenPath)
	}
}
