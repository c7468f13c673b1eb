package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/metrics"
	"github.com/yourusername/nfl-bets/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientQueueLen = 8
)

// OpportunityMessage is pushed to feed clients after every evaluation
type OpportunityMessage struct {
	Type          string                    `json:"type"`
	GeneratedAt   time.Time                 `json:"generated_at"`
	Opportunities []models.ValueOpportunity `json:"opportunities"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans opportunity updates out to websocket clients. The client set is
// owned by the Run goroutine; slow clients are dropped rather than blocking.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	clients    atomic.Int64
	upgrader   websocket.Upgrader
	logger     *logrus.Entry
}

// NewHub creates a hub. An empty origins list accepts any origin.
func NewHub(logger *logrus.Logger, allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 || allowed["*"] {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
		logger: logger.WithField("component", "ws_hub"),
	}
}

// Run owns the client set until ctx is cancelled or Close is called
func (h *Hub) Run(ctx context.Context) {
	clients := make(map[*client]bool)
	var latest []byte

	drop := func(c *client) {
		if clients[c] {
			delete(clients, c)
			close(c.send)
			h.clients.Store(int64(len(clients)))
			metrics.SetWebsocketClients(len(clients))
		}
	}

	for {
		select {
		case <-ctx.Done():
			h.Close()
		case <-h.done:
			for c := range clients {
				drop(c)
			}
			return
		case c := <-h.register:
			clients[c] = true
			h.clients.Store(int64(len(clients)))
			metrics.SetWebsocketClients(len(clients))
			if latest != nil {
				c.send <- latest
			}
		case c := <-h.unregister:
			drop(c)
		case msg := <-h.broadcast:
			latest = msg
			for c := range clients {
				select {
				case c.send <- msg:
				default:
					h.logger.Warn("Dropping slow websocket client")
					drop(c)
				}
			}
		}
	}
}

// Close stops the hub and disconnects every client
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	return int(h.clients.Load())
}

// BroadcastOpportunities queues opps for every client without blocking
func (h *Hub) BroadcastOpportunities(opps []models.ValueOpportunity) {
	if opps == nil {
		opps = []models.ValueOpportunity{}
	}
	msg, err := json.Marshal(OpportunityMessage{
		Type:          "opportunities",
		GeneratedAt:   time.Now().UTC(),
		Opportunities: opps,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode opportunities")
		return
	}

	select {
	case h.broadcast <- msg:
		metrics.RecordBroadcast(len(opps))
	default:
		h.logger.Warn("Broadcast queue full, dropping update")
	}
}

// ServeWS upgrades the request and registers the connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientQueueLen)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards client messages and unregisters on disconnect
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
