// Package config loads server settings from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the server reads at startup.
type Config struct {
	// ListenAddr is the TCP bind address for the line protocol.
	ListenAddr string
	// WSListenAddr enables the websocket endpoint when non-empty.
	WSListenAddr string
	// RedisAddr enables player-state snapshots when non-empty.
	RedisAddr string

	HeartbeatInterval time.Duration
	AckTimeout        time.Duration

	LogLevel logrus.Level
}

// Load reads configuration from the environment. A missing .env file is not
// an error; unset variables fall back to defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr:        getEnv("LISTEN_ADDR", "0.0.0.0:12345"),
		WSListenAddr:      getEnv("WS_LISTEN_ADDR", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		HeartbeatInterval: getDuration("HEARTBEAT_INTERVAL", 5*time.Second),
		AckTimeout:        getDuration("HEARTBEAT_TIMEOUT", 10*time.Second),
		LogLevel:          getLevel("LOG_LEVEL", logrus.InfoLevel),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getLevel(key string, fallback logrus.Level) logrus.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	level, err := logrus.ParseLevel(v)
	if err != nil {
		return fallback
	}
	return level
}
