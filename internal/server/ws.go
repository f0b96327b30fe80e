package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
)

// ServeWS exposes the game on a websocket endpoint at /ws. Accepted
// connections are adapted to net.Conn and admitted through the exact same
// session path as TCP clients: one text message per protocol line.
func (m *Manager) ServeWS(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.handleWS)

	srv := &http.Server{Addr: addr, Handler: mux}
	m.mu.Lock()
	m.wsServer = srv
	m.mu.Unlock()

	m.log.WithField("addr", addr).Info("websocket endpoint listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (m *Manager) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // clients are native apps, not browsers; origin is meaningless
	})
	if err != nil {
		m.log.WithError(err).Warn("websocket accept failed")
		return
	}
	c.SetReadLimit(4096)
	m.Admit(websocket.NetConn(context.Background(), c, websocket.MessageText))
}
