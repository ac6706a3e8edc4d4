// Package config loads service configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Addr         string // listen address
	DatabaseURL  string // postgres DSN; empty disables persistence
	RedisAddr    string // redis host:port; empty disables snapshots
	JWTSecret    string
	TurnTimerSec int // 0 disables the turn clock
	LogLevel     string
}

// Load reads the environment. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:         getEnv("BRIDGE_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("BRIDGE_DATABASE_URL"),
		RedisAddr:    os.Getenv("BRIDGE_REDIS_ADDR"),
		JWTSecret:    os.Getenv("BRIDGE_JWT_SECRET"),
		LogLevel:     getEnv("BRIDGE_LOG_LEVEL", "info"),
		TurnTimerSec: 30,
	}

	if v := os.Getenv("BRIDGE_TURN_TIMER_SEC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid BRIDGE_TURN_TIMER_SEC %q", v)
		}
		cfg.TurnTimerSec = n
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("BRIDGE_JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
