package session

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func newPipeSession(t *testing.T, interval, timeout time.Duration) (*Session, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	s := New("Player1", 0, server, interval, timeout, testLogger())
	t.Cleanup(func() {
		s.Close()
		client.Close()
	})
	return s, client
}

func waitEvent(t *testing.T, s *Session) Event {
	t.Helper()
	select {
	case ev := <-s.Commands:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestReadLoopClassifiesLines(t *testing.T) {
	s, client := newPipeSession(t, time.Minute, time.Minute)
	end := make(chan struct{})
	defer close(end)
	go s.ReadLoop(end)

	_, err := client.Write([]byte("HEARTBEAT_ACK\n1234\nnot a digit\n"))
	require.NoError(t, err)

	ev := waitEvent(t, s)
	assert.Equal(t, EventCommand, ev.Kind)
	assert.Equal(t, "1234", ev.Text)

	ev = waitEvent(t, s)
	assert.Equal(t, EventCommand, ev.Kind)
	assert.Equal(t, "not a digit", ev.Text)

	// The ack went to the ack queue, not the command queue.
	select {
	case <-s.acks:
	case <-time.After(time.Second):
		t.Fatal("heartbeat ack was not routed to the ack queue")
	}
}

func TestReadLoopPushesDisconnectOnPeerClose(t *testing.T) {
	s, client := newPipeSession(t, time.Minute, time.Minute)
	end := make(chan struct{})
	defer close(end)
	go s.ReadLoop(end)

	client.Close()

	ev := waitEvent(t, s)
	assert.Equal(t, EventDisconnect, ev.Kind)

	select {
	case ev := <-s.Commands:
		t.Fatalf("unexpected second event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDisconnectPushedAtMostOnceAcrossTasks(t *testing.T) {
	// A 1ms ack timeout makes the heartbeat fail almost immediately, while
	// closing the client makes the reader fail too. Only one disconnect may
	// surface on the command queue.
	s, client := newPipeSession(t, time.Minute, time.Millisecond)
	end := make(chan struct{})
	defer close(end)

	go s.ReadLoop(end)
	go s.HeartbeatLoop(end)
	client.Close()

	ev := waitEvent(t, s)
	assert.Equal(t, EventDisconnect, ev.Kind)

	select {
	case ev := <-s.Commands:
		t.Fatalf("second disconnect observed: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDisconnectDeliveredAfterEndLatchFires(t *testing.T) {
	// The end latch firing while the reader is blocked on the socket must not
	// swallow the disconnect event: the queue is buffered, so the event still
	// lands and the consumer blocked on Commands wakes up. Looped because the
	// losing interleaving is a race between the send and the closed latch.
	for i := 0; i < 20; i++ {
		s, client := newPipeSession(t, time.Minute, time.Minute)
		end := make(chan struct{})
		go s.ReadLoop(end)

		// Give the reader time to block on the pipe before the latch fires.
		time.Sleep(5 * time.Millisecond)
		close(end)
		client.Close()

		ev := waitEvent(t, s)
		assert.Equal(t, EventDisconnect, ev.Kind)
		s.Close()
	}
}

func TestHeartbeatLoopStaysAliveWithAcks(t *testing.T) {
	s, client := newPipeSession(t, 10*time.Millisecond, time.Second)
	end := make(chan struct{})
	defer close(end)

	go s.ReadLoop(end)
	go s.HeartbeatLoop(end)

	// Client side: answer every HEARTBEAT probe.
	probes := make(chan string, 16)
	go func() {
		r := bufio.NewScanner(client)
		for r.Scan() {
			line := strings.TrimSpace(r.Text())
			probes <- line
			if line == "HEARTBEAT" {
				if _, err := client.Write([]byte("HEARTBEAT_ACK\n")); err != nil {
					return
				}
			}
		}
	}()

	for i := 0; i < 3; i++ {
		select {
		case line := <-probes:
			assert.Equal(t, "HEARTBEAT", line)
		case <-time.After(2 * time.Second):
			t.Fatal("heartbeat probe not received")
		}
	}

	select {
	case ev := <-s.Commands:
		t.Fatalf("healthy session produced event: %+v", ev)
	default:
	}
}

func TestHeartbeatTimeoutDisconnectsAndClosesSocket(t *testing.T) {
	s, client := newPipeSession(t, time.Minute, 20*time.Millisecond)
	end := make(chan struct{})
	defer close(end)

	// Drain the client side but never acknowledge.
	go func() {
		buf := make([]byte, 256)
		for {
			if _, err := client.Read(buf); err != nil {
				return
			}
		}
	}()

	go s.HeartbeatLoop(end)

	ev := waitEvent(t, s)
	assert.Equal(t, EventDisconnect, ev.Kind)

	// The loop's exit must have closed the socket: further writes fail.
	require.Eventually(t, func() bool {
		return s.Send("TOOL") != nil
	}, time.Second, 10*time.Millisecond, "socket should be closed after heartbeat failure")
}

func TestHeartbeatLoopStopsOnEndLatch(t *testing.T) {
	s, client := newPipeSession(t, 10*time.Millisecond, time.Second)
	end := make(chan struct{})

	go func() {
		r := bufio.NewScanner(client)
		for r.Scan() {
			if strings.TrimSpace(r.Text()) == "HEARTBEAT" {
				if _, err := client.Write([]byte("HEARTBEAT_ACK\n")); err != nil {
					return
				}
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		s.HeartbeatLoop(end)
		close(done)
	}()

	close(end)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("heartbeat loop did not stop when the end latch fired")
	}
}

func TestSendAfterCloseReturnsError(t *testing.T) {
	s, _ := newPipeSession(t, time.Minute, time.Minute)
	s.Close()
	s.Close() // idempotent
	assert.Error(t, s.Send("STATUS Player1"))
}
