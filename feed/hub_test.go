package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/maze-chain/event"
	"github.com/lixenwraith/maze-chain/maze"
	"github.com/lixenwraith/maze-chain/parameter"
	"github.com/lixenwraith/maze-chain/status"
)

func startHub(t *testing.T) (*Hub, *httptest.Server, *status.Registry) {
	t.Helper()
	reg := status.NewRegistry()
	h := NewHub(reg, time.Second, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	srv := httptest.NewServer(h.Mux())
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return h, srv, reg
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, reg *status.Registry, n int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for reg.Ints.Get("feed.clients").Load() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, got %d", n, reg.Ints.Get("feed.clients").Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Test that published events reach every connected client
func TestHubBroadcast(t *testing.T) {
	h, srv, reg := startHub(t)
	a := dial(t, srv)
	b := dial(t, srv)
	waitClients(t, reg, 2)

	h.Publish(event.Event{
		Type: event.EventSegmentGenerated,
		Tick: 7,
		Payload: &event.SegmentGeneratedPayload{
			Index: 3, Size: 11, Entrance: maze.Point{X: 1}, Exit: maze.Point{X: 1, Y: 10},
		},
	})

	for i, conn := range []*websocket.Conn{a, b} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("client %d: read failed: %v", i, err)
		}

		var msg struct {
			Type    string `json:"type"`
			Tick    int64  `json:"tick"`
			Payload struct {
				Index int        `json:"index"`
				Size  int        `json:"size"`
				Exit  maze.Point `json:"exit"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("client %d: decode failed: %v", i, err)
		}
		if msg.Type != "segment_generated" || msg.Tick != 7 {
			t.Errorf("client %d: unexpected envelope %s/%d", i, msg.Type, msg.Tick)
		}
		if msg.Payload.Index != 3 || msg.Payload.Size != 11 || msg.Payload.Exit.Y != 10 {
			t.Errorf("client %d: unexpected payload %+v", i, msg.Payload)
		}
	}
}

// Test that a closed connection is unregistered
func TestHubUnregister(t *testing.T) {
	_, srv, reg := startHub(t)
	conn := dial(t, srv)
	waitClients(t, reg, 1)

	conn.Close()
	waitClients(t, reg, 0)
}

// Test the router handler adapter
func TestHandlerPublishes(t *testing.T) {
	h, srv, reg := startHub(t)
	conn := dial(t, srv)
	waitClients(t, reg, 1)

	q := event.NewQueue(8)
	r := event.NewRouter[struct{}](q)
	r.Register(Handler[struct{}](h))
	if r.HandlerCount(event.EventCrossingFailed) != 1 {
		t.Fatal("Expected handler for every event type")
	}

	q.Push(event.Event{Type: event.EventCrossingFailed, Payload: &event.CrossingFailedPayload{From: 2, Reason: "boom"}})
	r.DispatchAll(struct{}{})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), `"type":"crossing_failed"`) || !strings.Contains(string(data), `"reason":"boom"`) {
		t.Errorf("Unexpected frame %s", data)
	}
}

func TestServeStatus(t *testing.T) {
	_, srv, reg := startHub(t)
	reg.Ints.Get("chain.generated").Store(4)

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}
	var snap map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if snap["chain.generated"] != float64(4) {
		t.Errorf("Expected chain.generated 4, got %v", snap["chain.generated"])
	}
}

// Test that Publish never blocks when the hub is not draining
func TestPublishDropsWhenFull(t *testing.T) {
	reg := status.NewRegistry()
	h := NewHub(reg, 0, 0)
	for i := 0; i < parameter.FeedSendBuffer+3; i++ {
		h.Publish(event.Event{Type: event.EventExitReached, Payload: &event.ExitReachedPayload{Index: i}})
	}
	if got := reg.Ints.Get("feed.dropped").Load(); got != 3 {
		t.Errorf("Expected 3 dropped, got %d", got)
	}
}
