// Command server runs the 1A2B game server: a TCP line-protocol listener,
// an optional websocket endpoint, and a host loop that plays games
// back-to-back for as long as the process lives.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Heji-sky/1A2B-Game/internal/config"
	"github.com/Heji-sky/1A2B-Game/internal/host"
	"github.com/Heji-sky/1A2B-Game/internal/server"
	"github.com/Heji-sky/1A2B-Game/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)

	st := openStore(cfg, log)

	m := server.New(log, cfg.HeartbeatInterval, cfg.AckTimeout)
	if err := m.Listen(cfg.ListenAddr); err != nil {
		log.WithError(err).Fatal("failed to bind")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(m.Serve)
	if cfg.WSListenAddr != "" {
		g.Go(func() error { return m.ServeWS(cfg.WSListenAddr) })
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		m.Shutdown()
		return nil
	})
	g.Go(func() error {
		hostGames(m, st, log)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("server error")
	}
}

// openStore connects the snapshot store if Redis is configured. The server
// runs fine without one; snapshots are strictly best-effort.
func openStore(cfg config.Config, log *logrus.Logger) store.Store {
	if cfg.RedisAddr == "" {
		return store.Nop{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rs, err := store.NewRedisStore(ctx, cfg.RedisAddr)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, player snapshots disabled")
		return store.Nop{}
	}
	log.WithField("addr", cfg.RedisAddr).Info("player snapshots enabled")
	return rs
}

// hostGames plays games back-to-back until the process is stopped. Each
// iteration waits for a full table, runs one game, and tears it down.
func hostGames(m *server.Manager, st store.Store, log *logrus.Logger) {
	for {
		h := host.New(m, st, log)
		state := h.Run()
		m.ConcludeGame()

		select {
		case <-m.Stopped():
			return
		default:
		}
		log.WithField("state", state).Info("game concluded, waiting for new players")
	}
}
