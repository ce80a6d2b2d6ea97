package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("GEMINI_API_KEY")
	os.Unsetenv("GEMINI_MODEL")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("expected missing config file to be tolerated, got %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Gemini.Model != defaultModel {
		t.Errorf("expected default model %q, got %q", defaultModel, cfg.Gemini.Model)
	}
}

func TestLoadConfigFromYaml(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("GEMINI_API_KEY")
	os.Unsetenv("GEMINI_MODEL")

	path := filepath.Join(t.TempDir(), "config.yml")
	yaml := "server:\n  port: 9000\ngemini:\n  apiKey: \"file-key\"\n  model: \"gemini-file\"\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Gemini.ApiKey != "file-key" {
		t.Errorf("expected file key, got %q", cfg.Gemini.ApiKey)
	}
	if cfg.Gemini.Model != "gemini-file" {
		t.Errorf("expected model from file, got %q", cfg.Gemini.Model)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yaml := "server:\n  port: 9000\ngemini:\n  apiKey: \"file-key\"\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("PORT", "7001")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GEMINI_MODEL", "gemini-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("expected env port to win, got %d", cfg.Server.Port)
	}
	if cfg.Gemini.ApiKey != "env-key" {
		t.Errorf("expected env key to win, got %q", cfg.Gemini.ApiKey)
	}
	if cfg.Gemini.Model != "gemini-env" {
		t.Errorf("expected env model to win, got %q", cfg.Gemini.Model)
	}
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for invalid PORT")
	}
}
