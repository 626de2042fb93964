package confs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Feed mode selects where live readings come from. It is a startup choice,
// not runtime-mutable.
const (
	FeedModeSynthetic = "synthetic"
	FeedModeReal      = "real"
)

// Config carries all server settings. Values come from the environment, with
// an optional .env file loaded first.
type Config struct {
	Addr     string // HTTP listen address
	FeedMode string // synthetic | real
	Timezone string // control room display timezone

	BulkLimit int           // readings fetched on real-mode activation
	LiveCap   int           // buffer capacity under incremental append
	SynthCap  int           // buffer capacity in synthetic mode
	Tick      time.Duration // synthetic generation period
}

// Load reads a .env file if present and assembles the Config from the
// environment.
func Load() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	cfg := &Config{
		Addr:      getEnv("HTTP_ADDR", "0.0.0.0:3545"),
		FeedMode:  getEnv("FEED_MODE", FeedModeReal),
		Timezone:  getEnv("TIMEZONE", "Asia/Jakarta"),
		BulkLimit: getEnvInt("FEED_BULK_LIMIT", 500),
		LiveCap:   getEnvInt("FEED_LIVE_CAP", 1000),
		SynthCap:  getEnvInt("FEED_SYNTH_CAP", 500),
		Tick:      getEnvDuration("FEED_TICK", time.Second),
	}

	if cfg.FeedMode != FeedModeSynthetic && cfg.FeedMode != FeedModeReal {
		return nil, fmt.Errorf("invalid FEED_MODE %q: must be %q or %q",
			cfg.FeedMode, FeedModeSynthetic, FeedModeReal)
	}
	if cfg.BulkLimit <= 0 || cfg.LiveCap <= 0 || cfg.SynthCap <= 0 {
		return nil, fmt.Errorf("feed limits must be positive")
	}
	// A bulk load above capacity would fill the buffer past its bound with
	// no eviction path back under it.
	if cfg.BulkLimit > cfg.LiveCap {
		return nil, fmt.Errorf("FEED_BULK_LIMIT (%d) must not exceed FEED_LIVE_CAP (%d)",
			cfg.BulkLimit, cfg.LiveCap)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
