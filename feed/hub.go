/*
Package feed streams chain events to spectators over WebSocket.

Architecture:
  - Hub: owns the client set and fans out every published event
  - client: one connection with its own buffered send channel and write pump
  - Mux: /ws upgrades to a feed connection, /status serves the metrics snapshot
*/
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/maze-chain/event"
	"github.com/lixenwraith/maze-chain/parameter"
	"github.com/lixenwraith/maze-chain/status"
)

// Message is the JSON envelope of every feed frame
type Message struct {
	Type    string `json:"type"`
	Tick    int64  `json:"tick"`
	Payload any    `json:"payload"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the connected spectators and broadcasts to them
type Hub struct {
	clients    map[*client]struct{}
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}

	metrics      *status.Registry
	snapshot     func() map[string]any
	writeTimeout time.Duration
	pingInterval time.Duration

	statClients *atomic.Int64
	statSent    *atomic.Int64
	statDropped *atomic.Int64
}

// NewHub creates a hub; zero durations fall back to the defaults, metrics may be nil
func NewHub(metrics *status.Registry, writeTimeout, pingInterval time.Duration) *Hub {
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	if writeTimeout <= 0 {
		writeTimeout = parameter.FeedWriteTimeout
	}
	if pingInterval <= 0 {
		pingInterval = parameter.FeedPingInterval
	}
	return &Hub{
		clients:      make(map[*client]struct{}),
		broadcast:    make(chan []byte, parameter.FeedSendBuffer),
		register:     make(chan *client),
		unregister:   make(chan *client),
		done:         make(chan struct{}),
		metrics:      metrics,
		writeTimeout: writeTimeout,
		pingInterval: pingInterval,
		statClients:  metrics.Ints.Get("feed.clients"),
		statSent:     metrics.Ints.Get("feed.sent"),
		statDropped:  metrics.Ints.Get("feed.dropped"),
	}
}

// Run is the hub loop; it blocks until ctx is cancelled, then closes every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.remove(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.statClients.Store(int64(len(h.clients)))
			log.Printf("feed: client connected from %s", c.conn.RemoteAddr())

		case c := <-h.unregister:
			h.remove(c)

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
					h.statSent.Add(1)
				default:
					// Slow consumer, cut it loose
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.statClients.Store(int64(len(h.clients)))
}

// Publish encodes ev and queues it for broadcast without blocking the caller
func (h *Hub) Publish(ev event.Event) {
	data, err := json.Marshal(Message{Type: ev.Type.Name(), Tick: ev.Tick, Payload: ev.Payload})
	if err != nil {
		log.Printf("feed: encode %s: %v", ev.Type, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.statDropped.Add(1)
	}
}

// Handler returns a router handler that publishes every chain event
func Handler[T any](h *Hub) event.Handler[T] {
	return event.HandlerFunc[T]{
		Types: event.Types(),
		Fn: func(_ T, ev event.Event) {
			h.Publish(ev)
		},
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request and attaches the connection to the hub
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("feed: upgrade: %v", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, parameter.FeedSendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// SetSnapshot replaces the /status source; call before serving
// fn runs on HTTP goroutines and must be safe for concurrent use
func (h *Hub) SetSnapshot(fn func() map[string]any) {
	h.snapshot = fn
}

// ServeStatus writes the metrics snapshot as JSON
func (h *Hub) ServeStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.metrics.Snapshot
	if h.snapshot != nil {
		snap = h.snapshot
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap()); err != nil {
		log.Printf("feed: status: %v", err)
	}
}

// Mux returns the feed routes
func (h *Hub) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWs)
	mux.HandleFunc("/status", h.ServeStatus)
	return mux
}

// Serve runs the hub and an HTTP server on addr until ctx is cancelled
func (h *Hub) Serve(ctx context.Context, addr string) error {
	go h.Run(ctx)

	srv := &http.Server{Addr: addr, Handler: h.Mux(), ReadHeaderTimeout: h.writeTimeout}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.writeTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// readPump drains inbound frames so control messages are processed; spectators send nothing
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * c.hub.pingInterval))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * c.hub.pingInterval))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("feed: read: %v", err)
			}
			return
		}
	}
}

// writePump sends queued frames and keep-alive pings; exits when send is closed
func (c *client) writePump() {
	ticker := time.NewTicker(c.hub.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
