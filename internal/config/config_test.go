package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Provider != "gemini" {
		t.Fatalf("expected default provider gemini, got %q", cfg.Provider)
	}
	if cfg.StoreDriver != "memory" {
		t.Fatalf("expected default store driver memory, got %q", cfg.StoreDriver)
	}
	if cfg.DatabaseDriver != "sqlite" {
		t.Fatalf("expected default database driver sqlite, got %q", cfg.DatabaseDriver)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
}

func TestLoadConfigUnsupportedProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "openai")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}

func TestLoadConfigUnsupportedStoreDriver(t *testing.T) {
	t.Setenv("SESSION_STORE_DRIVER", "dynamo")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unsupported store driver")
	}
}

func TestLoadConfigRedisSettings(t *testing.T) {
	t.Setenv("SESSION_STORE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.RedisAddr != "redis:6380" {
		t.Fatalf("expected redis:6380, got %q", cfg.RedisAddr)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.RedisDB)
	}
}
