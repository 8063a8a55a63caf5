package config

import (
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("ERP_TEST_INT", "42")
	t.Setenv("ERP_TEST_BAD_INT", "forty")
	t.Setenv("ERP_TEST_BOOL", "true")

	if got := GetEnvAsInt("ERP_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvAsInt=%d, want 42", got)
	}
	if got := GetEnvAsInt("ERP_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetEnvAsInt fallback=%d, want 7", got)
	}
	if !GetEnvAsBool("ERP_TEST_BOOL", false) {
		t.Errorf("GetEnvAsBool should read true")
	}
	if got := GetEnv("ERP_TEST_UNSET", "x"); got != "x" {
		t.Errorf("GetEnv fallback=%q", got)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("SIGNED_URL_SECRET", "")
	t.Setenv("OUTBOX_POLL_SECONDS", "3")

	cfg := Load()
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver=%q", cfg.DBDriver)
	}
	if cfg.SignedURLSecret == "" || cfg.SignedURLSecret == cfg.JWTSecret {
		t.Errorf("file link key must be derived, not shared: %q", cfg.SignedURLSecret)
	}
	if again := Load(); again.SignedURLSecret != cfg.SignedURLSecret {
		t.Errorf("derived key is not stable")
	}
	if cfg.Outbox.PollInterval != 3*time.Second {
		t.Errorf("PollInterval=%v", cfg.Outbox.PollInterval)
	}
	if cfg.JWTTTL() != 24*time.Hour {
		t.Errorf("JWTTTL=%v", cfg.JWTTTL())
	}
}

func TestLoadKeepsExplicitSignedURLSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("SIGNED_URL_SECRET", "links")
	if cfg := Load(); cfg.SignedURLSecret != "links" {
		t.Errorf("SignedURLSecret=%q", cfg.SignedURLSecret)
	}

	t.Setenv("JWT_SECRET", "")
	t.Setenv("SIGNED_URL_SECRET", "")
	if cfg := Load(); cfg.SignedURLSecret != "" {
		t.Errorf("no key should be derived from an empty secret, got %q", cfg.SignedURLSecret)
	}
}

func TestConnectDBRejectsUnknownDriver(t *testing.T) {
	if _, err := ConnectDB(Config{DBDriver: "oracle"}); err == nil {
		t.Fatalf("expected an error for an unknown driver")
	}
}
