package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"LISTEN_ADDR", "WS_LISTEN_ADDR", "REDIS_ADDR", "HEARTBEAT_INTERVAL", "HEARTBEAT_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "0.0.0.0:12345", cfg.ListenAddr)
	assert.Empty(t, cfg.WSListenAddr)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 5*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 10*time.Second, cfg.AckTimeout)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("WS_LISTEN_ADDR", "127.0.0.1:9001")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("HEARTBEAT_INTERVAL", "250ms")
	t.Setenv("HEARTBEAT_TIMEOUT", "1s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "127.0.0.1:9001", cfg.WSListenAddr)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.HeartbeatInterval)
	assert.Equal(t, time.Second, cfg.AckTimeout)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("HEARTBEAT_INTERVAL", "soon")
	t.Setenv("HEARTBEAT_TIMEOUT", "-3s")
	t.Setenv("LOG_LEVEL", "chatty")

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 10*time.Second, cfg.AckTimeout)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
}
