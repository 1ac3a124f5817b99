package bridge

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/mlavr/internal/avr"
)

const (
	// DefaultInterval is the reference polling cadence.
	DefaultInterval = 4 * time.Second

	// writeWait bounds a single snapshot write to a subscriber.
	writeWait = 10 * time.Second
)

// Config holds the bridge settings.
type Config struct {
	Listen   string        // listen address, e.g. ":8080"
	Interval time.Duration // polling cadence; DefaultInterval when zero
}

// statusMessage is the envelope pushed to subscribers and served on /state.
type statusMessage struct {
	State     avr.State `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Server polls one client and fans its state out to WebSocket subscribers.
type Server struct {
	client   *avr.Client
	cfg      Config
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[*websocket.Conn]struct{}
	last        statusMessage
}

// New creates a bridge server around an existing client.
func New(client *avr.Client, cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Server{
		client: client,
		cfg:    cfg,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subscribers: make(map[*websocket.Conn]struct{}),
		last: statusMessage{
			State:     client.Snapshot(),
			UpdatedAt: time.Now(),
		},
	}
}

// Handler returns the HTTP routes: GET /state for a one-shot snapshot and
// GET /ws for the snapshot stream.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Start runs the poll loop and serves HTTP on the configured address. It
// blocks until the HTTP server fails.
func (s *Server) Start() error {
	s.log.Info("bridge listening",
		zap.String("addr", s.cfg.Listen),
		zap.Duration("interval", s.cfg.Interval),
		zap.String("device", s.client.Name()),
	)

	go s.pollLoop()
	return http.ListenAndServe(s.cfg.Listen, s.Handler())
}

func (s *Server) pollLoop() {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for range ticker.C {
		s.refreshAndBroadcast()
	}
}

// refreshAndBroadcast performs one poll cycle: refresh the client, snapshot
// its state and push the snapshot to every subscriber. Refresh failures are
// logged and the (stale) snapshot still goes out so subscribers see the
// connected flag and last known values.
func (s *Server) refreshAndBroadcast() {
	if err := s.client.RefreshAll(); err != nil {
		s.log.Warn("state refresh incomplete", zap.Error(err))
	}

	msg := statusMessage{
		State:     s.client.Snapshot(),
		UpdatedAt: time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("failed to marshal state", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.last = msg
	for conn := range s.subscribers {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.log.Info("dropping subscriber",
				zap.String("remote_addr", conn.RemoteAddr().String()),
				zap.Error(err),
			)
			delete(s.subscribers, conn)
			_ = conn.Close()
		}
	}
	s.mu.Unlock()
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	msg := s.last
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		s.log.Error("failed to write state response", zap.Error(err))
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	s.log.Info("subscriber connected", zap.String("remote_addr", conn.RemoteAddr().String()))

	// Send the latest snapshot immediately so new subscribers do not wait a
	// full poll interval for their first state.
	s.mu.Lock()
	payload, err := json.Marshal(s.last)
	if err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		err = conn.WriteMessage(websocket.TextMessage, payload)
	}
	if err != nil {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.subscribers[conn] = struct{}{}
	s.mu.Unlock()

	// The stream is one-way; the read loop only detects disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.mu.Lock()
				delete(s.subscribers, conn)
				s.mu.Unlock()
				_ = conn.Close()
				s.log.Info("subscriber disconnected",
					zap.String("remote_addr", conn.RemoteAddr().String()),
				)
				return
			}
		}
	}()
}

// SubscriberCount reports the number of connected WebSocket subscribers.
func (s *Server) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}
