package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/leads")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("LEADS_CACHE_TTL", "45s")
	t.Setenv("REMINDER_HOUR", "9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GetLocation().String() != "America/Sao_Paulo" {
		t.Fatalf("unexpected location %s", cfg.GetLocation())
	}
	if cfg.GetLeadsCacheTTL() != 45*time.Second {
		t.Fatalf("unexpected cache ttl %s", cfg.GetLeadsCacheTTL())
	}
	if cfg.GetReminderHour() != 9 {
		t.Fatalf("unexpected reminder hour %d", cfg.GetReminderHour())
	}
	if cfg.IsSMTPEnabled() {
		t.Fatal("smtp must be disabled without SMTP_HOST")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoadRejectsInvalidTimezone(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid timezone")
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for wildcard origins with credentials")
	}
}
