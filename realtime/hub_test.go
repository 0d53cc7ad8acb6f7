package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
)

func newTestHub() *Hub {
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go h.Run()
	return h
}

func newTestClient(h *Hub, profileID string) *Client {
	return &Client{Hub: h, Send: make(chan []byte, 4), ProfileID: profileID}
}

// flush registers and immediately unregisters a throwaway client. The hub
// loop is sequential, so once this returns every earlier channel op has
// been fully processed.
func flush(h *Hub) {
	c := newTestClient(h, "sync")
	h.Register <- c
	h.Unregister <- c
}

func TestPushToRegisteredProfile(t *testing.T) {
	h := newTestHub()
	client := newTestClient(h, "p1")
	h.Register <- client
	flush(h)

	h.PushToProfile("p1", "NOTIFICATION_CREATED", map[string]string{"title": "Approved"})

	select {
	case raw := <-client.Send:
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("unmarshal push: %v", err)
		}
		if msg.Type != "NOTIFICATION_CREATED" {
			t.Errorf("type = %q", msg.Type)
		}
	default:
		t.Fatal("no message delivered")
	}
}

func TestPushToUnknownProfileIsNoOp(t *testing.T) {
	h := newTestHub()
	h.PushToProfile("nobody", "NOTIFICATION_CREATED", nil)
}

func TestPushFansOutToAllSessions(t *testing.T) {
	h := newTestHub()
	a := newTestClient(h, "p1")
	b := newTestClient(h, "p1")
	other := newTestClient(h, "p2")
	h.Register <- a
	h.Register <- b
	h.Register <- other
	flush(h)

	h.PushToProfile("p1", "NOTIFICATION_CREATED", nil)

	if len(a.Send) != 1 || len(b.Send) != 1 {
		t.Errorf("p1 sessions got %d and %d messages, want 1 each", len(a.Send), len(b.Send))
	}
	if len(other.Send) != 0 {
		t.Errorf("p2 session got %d messages, want 0", len(other.Send))
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	h := newTestHub()
	client := newTestClient(h, "p1")
	h.Register <- client
	h.Unregister <- client
	flush(h)

	// Must not panic on the closed send channel.
	h.PushToProfile("p1", "NOTIFICATION_CREATED", nil)
}

func TestSlowClientIsSkipped(t *testing.T) {
	h := newTestHub()
	client := &Client{Hub: h, Send: make(chan []byte, 1), ProfileID: "p1"}
	h.Register <- client
	flush(h)

	h.PushToProfile("p1", "NOTIFICATION_CREATED", "one")
	// Buffer is now full; the second push must drop rather than block.
	h.PushToProfile("p1", "NOTIFICATION_CREATED", "two")

	if len(client.Send) != 1 {
		t.Errorf("buffered messages = %d, want 1", len(client.Send))
	}
}
