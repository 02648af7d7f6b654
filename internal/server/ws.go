package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/posejump/internal/detector"
	"github.com/ayusman/posejump/internal/pose"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local connections only
	},
}

// landmarksMessage is the websocket payload. Line coordinates are
// normalized and not mirrored.
type landmarksMessage struct {
	Seq       uint64              `json:"seq"`
	Lines     []detector.PoseLine `json:"lines"`
	Timestamp int64               `json:"timestamp"`
}

// LandmarksHandler broadcasts every new pose snapshot to websocket clients.
type LandmarksHandler struct {
	poses    *pose.Handoff
	interval time.Duration
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLandmarksHandler creates a LandmarksHandler and starts its broadcast
// goroutine. Close stops it.
func NewLandmarksHandler(poses *pose.Handoff, interval time.Duration) *LandmarksHandler {
	h := &LandmarksHandler{
		poses:    poses,
		interval: interval,
		clients:  make(map[*websocket.Conn]bool),
		stopCh:   make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *LandmarksHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the broadcast goroutine.
func (h *LandmarksHandler) Close() {
	h.stopOnce.Do(func() { close(h.stopCh) })
}

func (h *LandmarksHandler) broadcast() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
		}

		if h.Clients() == 0 {
			continue
		}

		snap, ok := h.poses.TryTake()
		if !ok || snap.Seq == last {
			continue
		}
		last = snap.Seq

		lines := snap.Lines
		if lines == nil {
			lines = []detector.PoseLine{}
		}
		msg, err := json.Marshal(landmarksMessage{
			Seq:       snap.Seq,
			Lines:     lines,
			Timestamp: snap.Timestamp.UnixMilli(),
		})
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
