// Package web streams game snapshots to spectators over websockets.
package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/stack-forever/internal/games/stack"
)

const writeWait = 2 * time.Second

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans snapshots out to every connected spectator. Spectators are
// read-only: anything they send is discarded.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	last        []byte
	logger      *log.Logger
	upgrader    websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP upgrades the request and keeps the spectator subscribed until
// the connection drops. The latest snapshot is sent straight away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sub := &subscriber{conn: conn}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	last := h.last
	h.mu.Unlock()
	h.logger.Info("spectator joined", "remote", r.RemoteAddr, "spectators", h.Clients())

	if last != nil {
		if err := sub.write(last); err != nil {
			h.drop(sub)
			return
		}
	}

	for {
		if _, _, err := conn.NextReader(); err != nil {
			h.drop(sub)
			h.logger.Info("spectator left", "remote", r.RemoteAddr, "spectators", h.Clients())
			return
		}
	}
}

// Broadcast encodes snap and writes it to every spectator. Spectators
// whose write fails are disconnected.
func (h *Hub) Broadcast(snap stack.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("web: cannot encode snapshot: %w", err)
	}

	h.mu.Lock()
	h.last = data
	subs := make([]*subscriber, 0, len(h.subscribers))
	for s := range h.subscribers {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		if err := s.write(data); err != nil {
			h.logger.Debug("dropping spectator", "error", err)
			h.drop(s)
		}
	}
	return nil
}

// Last returns the most recent encoded snapshot, or nil.
func (h *Hub) Last() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[*subscriber]struct{})
	h.mu.Unlock()

	for s := range subs {
		s.mu.Lock()
		//nolint:errcheck // Best-effort close frame
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		s.mu.Unlock()
		s.conn.Close()
	}
}

func (h *Hub) drop(s *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[s]
	delete(h.subscribers, s)
	h.mu.Unlock()
	if ok {
		s.conn.Close()
	}
}
