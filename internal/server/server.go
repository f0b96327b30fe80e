// Package server accepts player connections and maintains the roster for one
// game at a time: at most two sessions, a one-shot start latch that fires
// when the table is full, and a one-shot end latch that fires when the game
// concludes.
package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Heji-sky/1A2B-Game/internal/protocol"
	"github.com/Heji-sky/1A2B-Game/internal/session"
)

// MaxPlayers is the roster capacity. A connection beyond it is told FULL and
// dropped without ever entering the roster.
const MaxPlayers = 2

// Manager owns the listeners and the roster. The accept path and the
// disconnect path both mutate the roster, so every touch goes through mu;
// readers get copy-on-read snapshots.
type Manager struct {
	log *logrus.Entry

	heartbeatInterval time.Duration
	ackTimeout        time.Duration

	mu       sync.Mutex
	roster   []*session.Session
	start    *Latch
	end      *Latch
	listener net.Listener
	wsServer *http.Server

	// stop is process-wide; start/end are re-armed per game.
	stop *Latch
}

// New builds a Manager. Zero heartbeat durations use the session defaults.
func New(log *logrus.Logger, heartbeatInterval, ackTimeout time.Duration) *Manager {
	return &Manager{
		log:               logrus.NewEntry(log),
		heartbeatInterval: heartbeatInterval,
		ackTimeout:        ackTimeout,
		start:             NewLatch(),
		end:               NewLatch(),
		stop:              NewLatch(),
	}
}

// Listen binds the TCP listener.
func (m *Manager) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	m.mu.Lock()
	m.listener = ln
	m.mu.Unlock()
	m.log.WithField("addr", addr).Info("listening")
	return nil
}

// Serve runs the accept loop until Shutdown closes the listener.
func (m *Manager) Serve() error {
	for {
		conn, err := m.listener.Accept()
		if err != nil {
			if m.stop.Fired() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		m.Admit(conn)
	}
}

// Admit places a new connection into the roster and spawns its reader and
// heartbeat tasks. Overflow connections get a FULL notice and are closed
// without spawning anything. The websocket endpoint and the TCP accept loop
// both funnel through here.
func (m *Manager) Admit(conn net.Conn) {
	m.mu.Lock()
	if m.stop.Fired() {
		m.mu.Unlock()
		_ = conn.Close()
		return
	}
	if len(m.roster) >= MaxPlayers {
		m.mu.Unlock()
		_, _ = conn.Write(protocol.Line(protocol.MsgFull))
		_ = conn.Close()
		m.log.WithField("remote", conn.RemoteAddr()).Info("connection rejected, table full")
		return
	}

	index := len(m.roster)
	name := fmt.Sprintf("Player%d", index+1)
	s := session.New(name, index, conn, m.heartbeatInterval, m.ackTimeout, m.log)
	m.roster = append(m.roster, s)
	ready := len(m.roster) == MaxPlayers
	start, end := m.start, m.end
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{"player": name, "remote": conn.RemoteAddr()}).Info("player connected")

	go s.ReadLoop(end.Done())
	go s.HeartbeatLoop(end.Done())

	if ready {
		start.Fire()
	}
}

// Roster returns a snapshot of the current sessions in slot order.
func (m *Manager) Roster() []*session.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*session.Session, len(m.roster))
	copy(out, m.roster)
	return out
}

// Latches returns the current game's start and end latches. Callers must
// re-fetch after ConcludeGame, which re-arms both.
func (m *Manager) Latches() (start, end *Latch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.start, m.end
}

// Stopped fires when the whole process is shutting down, as opposed to a
// single game ending.
func (m *Manager) Stopped() <-chan struct{} {
	return m.stop.Done()
}

// HandleDisconnect removes a session from the roster and, if exactly one
// player remains, declares that player the winner and fires the end latch.
// This is the only place that decides "last player standing wins"; the turn
// engine calls it whenever it observes a disconnect event, so two tasks can
// never race to crown a winner.
func (m *Manager) HandleDisconnect(s *session.Session) {
	m.mu.Lock()
	for i, cur := range m.roster {
		if cur == s {
			m.roster = append(m.roster[:i], m.roster[i+1:]...)
			break
		}
	}
	var lone *session.Session
	if len(m.roster) == 1 {
		lone = m.roster[0]
	}
	end := m.end
	m.mu.Unlock()

	m.log.WithField("player", s.Name).Info("player disconnected")
	s.Close()

	if lone != nil {
		if err := lone.Send(protocol.Winner(lone.Name)); err == nil {
			m.log.WithField("player", lone.Name).Info("wins by default")
		}
		end.Fire()
	}
}

// ConcludeGame tears down the finished game and re-arms the latches for the
// next one: fires end, closes every remaining session, and empties the
// roster. The listener stays up, so the next two connections start a fresh
// game.
func (m *Manager) ConcludeGame() {
	m.mu.Lock()
	old := m.roster
	m.roster = nil
	end := m.end
	m.start = NewLatch()
	m.end = NewLatch()
	m.mu.Unlock()

	end.Fire()
	for _, s := range old {
		s.Close()
	}
}

// Shutdown stops the process: fires the stop latch and the current end latch
// and closes the listeners. Idempotent.
func (m *Manager) Shutdown() {
	m.stop.Fire()

	m.mu.Lock()
	end := m.end
	ln := m.listener
	ws := m.wsServer
	m.mu.Unlock()

	end.Fire()
	if ln != nil {
		_ = ln.Close()
	}
	if ws != nil {
		_ = ws.Close()
	}
}
