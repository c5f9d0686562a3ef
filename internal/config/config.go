package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	GracePeriod   time.Duration
	SendTimeout   time.Duration
	SweepInterval time.Duration
}

// Load reads configuration from the environment, with .env as an optional
// local override file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:          getEnv("ADDR", ":8080"),
		GracePeriod:   getDurationMS("GRACE_PERIOD_MS", 5000),
		SendTimeout:   getDurationMS("SEND_TIMEOUT_MS", 3000),
		SweepInterval: getDurationMS("SWEEP_INTERVAL_MS", 5000),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationMS(key string, fallback int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(fallback) * time.Millisecond
}
