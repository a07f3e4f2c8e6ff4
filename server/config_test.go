package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"ADDR", "DATA_DIR", "LEADERBOARD_DSN", "PRICE_FALLBACK", "UPSTREAM_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := loadConfig()
	if cfg.Addr != ":8080" || cfg.DataDir != "data" || !cfg.PriceFallback || cfg.Timeout != 15*time.Second {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Leaderboard != filepath.Join("data", "leaderboard.db") {
		t.Fatalf("leaderboard=%q", cfg.Leaderboard)
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ADDR", "")
	t.Setenv("PRICE_FALLBACK", "")
	// godotenv never overrides variables that are already set
	t.Setenv("DATA_DIR", "/srv/snakes")
	os.Unsetenv("ADDR")
	os.Unsetenv("PRICE_FALLBACK")
	env := "ADDR=:9090\nPRICE_FALLBACK=false\nDATA_DIR=ignored\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := loadConfig()
	if cfg.Addr != ":9090" || cfg.PriceFallback || cfg.DataDir != "/srv/snakes" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("X_TIMEOUT", "250ms")
	if d := getduration("X_TIMEOUT", time.Second); d != 250*time.Millisecond {
		t.Fatalf("d=%v", d)
	}
	t.Setenv("X_TIMEOUT", "-1s")
	if d := getduration("X_TIMEOUT", time.Second); d != time.Second {
		t.Fatalf("negative accepted: %v", d)
	}
}
