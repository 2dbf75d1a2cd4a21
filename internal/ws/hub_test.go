package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"skate_app/internal/domain"
)

func testClient(userID string) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 1)}
}

func TestHub_NotifyTargetsUser(t *testing.T) {
	hub := NewHub()
	alice := testClient("alice")
	bob := testClient("bob")
	hub.register(alice)
	hub.register(bob)

	n := domain.Notification{
		UserID:  "alice",
		Event:   domain.EventTurnPassed,
		GameID:  "g1",
		Message: "your move",
	}
	if err := hub.Notify(context.Background(), n); err != nil {
		t.Fatalf("notify: %v", err)
	}

	select {
	case payload := <-alice.Send:
		var got domain.Notification
		if err := json.Unmarshal(payload, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Event != domain.EventTurnPassed || got.GameID != "g1" {
			t.Fatalf("payload = %+v", got)
		}
	default:
		t.Fatal("alice got nothing")
	}

	select {
	case <-bob.Send:
		t.Fatal("bob must not receive alice's event")
	default:
	}
}

func TestHub_NotifyAllConnectionsOfUser(t *testing.T) {
	hub := NewHub()
	phone := testClient("alice")
	desktop := testClient("alice")
	hub.register(phone)
	hub.register(desktop)

	n := domain.Notification{UserID: "alice", Event: domain.EventGameOver}
	if err := hub.Notify(context.Background(), n); err != nil {
		t.Fatalf("notify: %v", err)
	}

	for _, c := range []*Client{phone, desktop} {
		select {
		case <-c.Send:
		default:
			t.Fatal("every connection of the user gets the event")
		}
	}
}

func TestHub_FullBufferDropsWithoutBlocking(t *testing.T) {
	hub := NewHub()
	c := testClient("alice")
	hub.register(c)

	// fill the one-slot buffer, then notify again
	c.Send <- []byte("stale")

	done := make(chan struct{})
	go func() {
		_ = hub.Notify(context.Background(), domain.Notification{UserID: "alice", Event: domain.EventGameOver})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notify blocked on a full buffer")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	c := testClient("alice")
	hub.register(c)
	hub.unregister(c)
	// a second unregister of the same client is harmless
	hub.unregister(c)

	if err := hub.Notify(context.Background(), domain.Notification{UserID: "alice", Event: domain.EventGameOver}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	select {
	case <-c.Send:
		t.Fatal("unregistered client must not receive events")
	default:
	}

	if len(hub.clients) != 0 {
		t.Fatalf("clients map = %v, want empty", hub.clients)
	}
}
