package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_MissingDatabaseURI(t *testing.T) {
	t.Setenv("HOTORNOT_DATABASE_URI", "")
	t.Setenv("MONGODB_URI", "")

	_, err := Load()
	if !errors.Is(err, ErrMissingDatabaseURI) {
		t.Fatalf("Load() error = %v, want ErrMissingDatabaseURI", err)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HOTORNOT_DATABASE_URI", "memory://")
	t.Setenv("HOTORNOT_HTTP_PORT", "9090")
	t.Setenv("HOTORNOT_REDIS_CLAIMINTERVAL", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.URI != "memory://" {
		t.Errorf("Database.URI = %q, want memory://", cfg.Database.URI)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("HTTP.Port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Redis.ClaimInterval != 5*time.Second {
		t.Errorf("Redis.ClaimInterval = %v, want 5s", cfg.Redis.ClaimInterval)
	}
	if cfg.RedisEnabled() {
		t.Error("redis should be disabled without an address")
	}
	if cfg.Leaderboard.MaxLimit != 50 {
		t.Errorf("Leaderboard.MaxLimit = %d, want 50", cfg.Leaderboard.MaxLimit)
	}
}

func TestLoad_MongoURIAlias(t *testing.T) {
	t.Setenv("HOTORNOT_DATABASE_URI", "")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.URI != "mongodb://localhost:27017" {
		t.Errorf("Database.URI = %q, want the MONGODB_URI value", cfg.Database.URI)
	}
}
