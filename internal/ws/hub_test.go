package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/talkwave/talkwave-backend/internal/docstore"
)

func waitForEvent(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		return &ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestHubPushesIndexChanges(t *testing.T) {
	store := docstore.NewMemoryStore()
	hub := NewHub(store)
	go hub.Run()
	defer hub.Shutdown()

	client := NewClient(hub, nil, "alice-example-com")
	hub.Register(client)

	// Registration is async; wait for the index watch to be in place
	path := docstore.ConversationsPath("alice-example-com")
	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.RLock()
		_, watching := hub.watches["alice-example-com"]
		hub.mu.RUnlock()
		if watching {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("index watch never established")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := store.Set(context.Background(), path, []string{"changed"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	ev := waitForEvent(t, client)
	if ev.Type != "conversations" {
		t.Errorf("unexpected event type: %q", ev.Type)
	}
	if ev.Path != path {
		t.Errorf("unexpected event path: %q", ev.Path)
	}
}

// A per-conversation store subscription can fire after the hub has
// already dropped the client; the late event must be discarded, not
// sent on the closed channel.
func TestSendEventAfterDisconnect(t *testing.T) {
	store := docstore.NewMemoryStore()
	hub := NewHub(store)
	go hub.Run()
	defer hub.Shutdown()

	client := NewClient(hub, nil, "alice-example-com")
	hub.Register(client)
	hub.unregister <- client

	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.RLock()
		gone := len(hub.clients["alice-example-com"]) == 0
		hub.mu.RUnlock()
		if gone {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("unregister never processed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Must be a no-op, not a panic
	client.SendEvent(&Event{Type: "messages", Path: "conv/messages"})
}

func TestHubUnsubscribesOnLastDisconnect(t *testing.T) {
	store := docstore.NewMemoryStore()
	hub := NewHub(store)
	go hub.Run()
	defer hub.Shutdown()

	first := NewClient(hub, nil, "alice-example-com")
	second := NewClient(hub, nil, "alice-example-com")
	hub.Register(first)
	hub.Register(second)

	hub.unregister <- first

	// One connection remains, the watch must survive
	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.RLock()
		_, watching := hub.watches["alice-example-com"]
		conns := len(hub.clients["alice-example-com"])
		hub.mu.RUnlock()
		if conns == 1 {
			if !watching {
				t.Fatal("watch dropped while a connection remains")
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("unregister never processed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.unregister <- second

	deadline = time.Now().Add(time.Second)
	for {
		hub.mu.RLock()
		_, watching := hub.watches["alice-example-com"]
		hub.mu.RUnlock()
		if !watching {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("watch not released after last disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
