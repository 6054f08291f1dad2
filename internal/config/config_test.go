package config

import (
	"errors"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("KAKAO_CLIENT_ID", "client-1")
	t.Setenv("REDIRECT_URI", "http://localhost:3000/auth/kakao/callback")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.HTTPPort)
	}
	if cfg.UserStore != StoreMongo {
		t.Fatalf("expected mongo store, got %q", cfg.UserStore)
	}
	if len(cfg.KakaoScopes) != 1 || cfg.KakaoScopes[0] != "account_email" {
		t.Fatalf("unexpected scopes: %v", cfg.KakaoScopes)
	}
	if cfg.SessionTTL() != time.Hour {
		t.Fatalf("expected 1h session ttl, got %s", cfg.SessionTTL())
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Fatalf("expected 5s upstream timeout, got %s", cfg.UpstreamTimeout)
	}
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadConfig_PostgresRequiresDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("USER_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/kakao")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UserStore != StorePostgres {
		t.Fatalf("expected postgres store, got %q", cfg.UserStore)
	}
}

func TestValidate_UnknownStore(t *testing.T) {
	cfg := Config{UserStore: "redis", JWTTTLMinutes: 60, UpstreamTimeout: time.Second}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
