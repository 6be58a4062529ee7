package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %s, want 8000", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Errorf("Env = %s, want development default", cfg.Env)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout())
	}
	if cfg.AssistantEnabled() {
		t.Error("assistant should be disabled without ASSISTANT_URL")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("ASSISTANT_URL", "https://assistant.internal")
	t.Setenv("ASSISTANT_TIMEOUT_MS", "2500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %s", cfg.Port)
	}
	if cfg.IsDev() {
		t.Error("expected production mode")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.AssistantEnabled() {
		t.Error("assistant should be enabled")
	}
	if cfg.AssistantTimeout() != 2500*time.Millisecond {
		t.Errorf("AssistantTimeout = %v", cfg.AssistantTimeout())
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_MS", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}
