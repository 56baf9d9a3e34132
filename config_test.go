package main

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_SECRET", "JWT_REFRESH_SECRET", "ACCESS_TOKEN_TTL_MINUTES", "REFRESH_TOKEN_TTL_DAYS", "APP_ENV"} {
		t.Setenv(key, "") // register restore
		os.Unsetenv(key)
	}

	cfg := loadConfig()
	if cfg.Port != "3000" {
		t.Fatalf("default port: got %q", cfg.Port)
	}
	if cfg.AccessSecret != "secretkey" {
		t.Fatalf("default access secret: got %q", cfg.AccessSecret)
	}
	if cfg.RefreshSecret != "your-refresh-secret-key-change-in-production" {
		t.Fatalf("default refresh secret: got %q", cfg.RefreshSecret)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("default access ttl: got %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("default refresh ttl: got %v", cfg.RefreshTTL)
	}
	if cfg.Env != "dev" {
		t.Fatalf("default env: got %q", cfg.Env)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "s1")
	t.Setenv("JWT_REFRESH_SECRET", "s2")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "30")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "14")
	t.Setenv("APP_ENV", "prod")

	cfg := loadConfig()
	if cfg.Port != "8080" || cfg.AccessSecret != "s1" || cfg.RefreshSecret != "s2" || cfg.Env != "prod" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.AccessTTL != 30*time.Minute {
		t.Fatalf("access ttl override: got %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 14*24*time.Hour {
		t.Fatalf("refresh ttl override: got %v", cfg.RefreshTTL)
	}
}

func TestLoadConfigBadTTLFallsBack(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "not-a-number")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "-3")

	cfg := loadConfig()
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("bad access ttl must fall back: got %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("bad refresh ttl must fall back: got %v", cfg.RefreshTTL)
	}
}
