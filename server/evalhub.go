package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// EvalUpdate is the payload pushed to evaluation-feed subscribers after
// every applied move.
type EvalUpdate struct {
	GameID     string `json:"game_id"`
	FEN        string `json:"fen"`
	Turn       string `json:"turn"`
	Material   int    `json:"material"`
	Evaluation int    `json:"evaluation"`
}

// EvalHub fans evaluation updates out to websocket clients. Slow clients
// drop updates instead of stalling the broadcast.
type EvalHub struct {
	mu        sync.Mutex
	clients   map[*evalClient]struct{}
	broadcast chan EvalUpdate
	log       zerolog.Logger
}

type evalClient struct {
	send chan []byte
}

// NewEvalHub returns a hub ready to Run.
func NewEvalHub(log zerolog.Logger) *EvalHub {
	return &EvalHub{
		clients:   make(map[*evalClient]struct{}),
		broadcast: make(chan EvalUpdate, 16),
		log:       log,
	}
}

// Run pumps broadcasts until done closes.
func (h *EvalHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case update := <-h.broadcast:
			data, err := json.Marshal(update)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an update without blocking the caller.
func (h *EvalHub) Publish(update EvalUpdate) {
	select {
	case h.broadcast <- update:
	default:
	}
}

func (h *EvalHub) register(c *evalClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *EvalHub) unregister(c *evalClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// ServeWS upgrades the request and streams updates until the client goes
// away.
func (h *EvalHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &evalClient{send: make(chan []byte, 16)}
	h.register(client)

	go func() {
		defer conn.Close()
		for data := range client.send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unregister(client)
			return
		}
	}
}
