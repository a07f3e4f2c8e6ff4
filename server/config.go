package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	DataDir       string
	HeliusKey     string
	HeliusURL     string
	DexScreener   string
	PriceFallback bool
	Leaderboard   string // store dsn, "off" disables
	Timeout       time.Duration
}

// loadConfig reads the environment, after merging a .env file when present.
func loadConfig() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env: %v", err)
	}
	dataDir := getenv("DATA_DIR", "data")
	return Config{
		Addr:          getenv("ADDR", ":8080"),
		DataDir:       dataDir,
		HeliusKey:     os.Getenv("HELIUS_API_KEY"),
		HeliusURL:     os.Getenv("HELIUS_RPC_URL"),
		DexScreener:   os.Getenv("DEXSCREENER_URL"),
		PriceFallback: getbool("PRICE_FALLBACK", true),
		Leaderboard:   getenv("LEADERBOARD_DSN", filepath.Join(dataDir, "leaderboard.db")),
		Timeout:       getduration("UPSTREAM_TIMEOUT", 15*time.Second),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}

func getduration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
