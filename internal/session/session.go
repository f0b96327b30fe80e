// Package session owns the per-connection plumbing: one Session per player,
// with a reader task and a heartbeat task feeding classified events into
// queues that exactly one consumer drains.
package session

import (
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Heji-sky/1A2B-Game/internal/protocol"
)

// EventKind tags an entry on a session's command queue.
type EventKind int

const (
	// EventCommand carries one decoded protocol line from the client.
	EventCommand EventKind = iota
	// EventDisconnect marks the session as gone. It is pushed at most once
	// per session, regardless of which task noticed the failure first.
	EventDisconnect
)

// Event is one entry on a session's command queue.
type Event struct {
	Kind EventKind
	Text string
}

const (
	// commandQueueDepth is generous: a client has no legitimate reason to
	// queue more than a handful of lines ahead of its prompts.
	commandQueueDepth = 64
	ackQueueDepth     = 4
)

// Default heartbeat cadence.
const (
	DefaultHeartbeatInterval = 5 * time.Second
	DefaultAckTimeout        = 10 * time.Second
)

// Session is the server-side handle for one connected player. The connection
// is owned exclusively by the session and closed exactly once. Commands is
// written only by this session's tasks and read only by the turn engine;
// the ack queue is written only by the reader task and read only by the
// heartbeat task.
type Session struct {
	Name  string
	Index int

	// Commands is the single fan-in point for this player: game commands and
	// the (at most one) disconnect event, in arrival order.
	Commands chan Event

	conn net.Conn
	acks chan struct{}
	log  *logrus.Entry

	heartbeatInterval time.Duration
	ackTimeout        time.Duration

	writeMu        sync.Mutex
	closeOnce      sync.Once
	disconnectOnce sync.Once
}

// New wraps conn in a Session. Zero durations fall back to the defaults.
func New(name string, index int, conn net.Conn, interval, timeout time.Duration, log *logrus.Entry) *Session {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	if timeout <= 0 {
		timeout = DefaultAckTimeout
	}
	return &Session{
		Name:              name,
		Index:             index,
		Commands:          make(chan Event, commandQueueDepth),
		conn:              conn,
		acks:              make(chan struct{}, ackQueueDepth),
		log:               log.WithField("player", name),
		heartbeatInterval: interval,
		ackTimeout:        timeout,
	}
}

// Send writes one protocol line to the client. A failed write is logged and
// reported to the caller; it is not re-raised as a disconnect event here —
// the heartbeat and reader tasks own failure detection.
func (s *Session) Send(msg string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.conn.Write(protocol.Line(msg)); err != nil {
		s.log.WithError(err).Warn("write failed")
		return err
	}
	return nil
}

// Close closes the connection. Safe to call any number of times from any
// task; only the first call reaches the socket.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.log.Debug("closing connection")
		_ = s.conn.Close()
	})
}

// pushDisconnect enqueues the session's single disconnect event. The reader
// and heartbeat tasks are independent failure detectors, so both may call
// this; the once guard keeps the turn engine's view to one event. The queue
// is buffered, so the non-blocking send is tried first: a fired end latch
// must not swallow the event while the consumer is still blocked on the
// queue. The latch only unblocks the push when the queue is genuinely full
// and the engine has stopped consuming.
func (s *Session) pushDisconnect(end <-chan struct{}) {
	s.disconnectOnce.Do(func() {
		select {
		case s.Commands <- Event{Kind: EventDisconnect}:
			return
		default:
		}
		select {
		case s.Commands <- Event{Kind: EventDisconnect}:
		case <-end:
		}
	})
}

// ReadLoop reads lines from the connection until the game ends or the
// connection fails. Heartbeat acknowledgements go to the ack queue; every
// other line — valid or not, content is the turn engine's problem — goes to
// the command queue. On any read failure it pushes a single disconnect event
// and exits.
func (s *Session) ReadLoop(end <-chan struct{}) {
	sc := protocol.NewLineScanner(s.conn)
	for {
		select {
		case <-end:
			return
		default:
		}

		line, err := sc.Next()
		if err != nil {
			// io.EOF is the peer closing; anything else is a transport fault.
			// Both collapse into the same disconnect event.
			s.pushDisconnect(end)
			return
		}

		if line == protocol.MsgHeartbeatAck {
			select {
			case s.acks <- struct{}{}:
			default: // unsolicited extra acks are dropped
			}
			continue
		}

		s.log.WithField("line", line).Debug("command received")
		select {
		case s.Commands <- Event{Kind: EventCommand, Text: line}:
		case <-end:
			return
		}
	}
}

// HeartbeatLoop probes the client until the game ends or the client stops
// answering. Every exit path closes the connection, which is what guarantees
// a dead session's socket is released even if the turn engine never reads
// from it.
func (s *Session) HeartbeatLoop(end <-chan struct{}) {
	defer s.Close()

	for {
		select {
		case <-end:
			return
		default:
		}

		if err := s.Send(protocol.MsgHeartbeat); err != nil {
			s.pushDisconnect(end)
			return
		}

		select {
		case <-s.acks:
		case <-time.After(s.ackTimeout):
			s.log.Warn("heartbeat ack timed out")
			s.pushDisconnect(end)
			return
		case <-end:
			return
		}

		select {
		case <-time.After(s.heartbeatInterval):
		case <-end:
			return
		}
	}
}
