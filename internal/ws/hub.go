package ws

import (
	"context"
	"sync"

	"github.com/talkwave/talkwave-backend/internal/docstore"
	pkglogger "github.com/talkwave/talkwave-backend/pkg/logger"
)

// Hub manages WebSocket clients and drives their live conversation
// lists. While a member has at least one connection, the hub holds a
// store subscription on that member's conversation index and fans each
// change out to all of the member's connections.
type Hub struct {
	// Registered clients grouped by safe-identity
	clients map[string]map[*Client]bool

	// Register/unregister channels
	register   chan *Client
	unregister chan *Client

	// Broadcast to a specific member
	broadcast chan *targetedEvent

	// Active index subscriptions per member
	watches map[string]docstore.UnsubscribeFunc

	mu     sync.RWMutex
	store  docstore.Store
	ctx    context.Context
	cancel context.CancelFunc
}

type targetedEvent struct {
	SafeEmail string
	Event     *Event
}

// NewHub creates a new Hub
func NewHub(store docstore.Store) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *targetedEvent, 64),
		watches:    make(map[string]docstore.UnsubscribeFunc),
		store:      store,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// NotifyMember pushes an event to all of a member's connections
func (h *Hub) NotifyMember(safeEmail string, ev *Event) {
	select {
	case h.broadcast <- &targetedEvent{SafeEmail: safeEmail, Event: ev}:
	case <-h.ctx.Done():
	}
}

// Run processes register/unregister/broadcast events until Shutdown
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case te := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients[te.SafeEmail] {
				client.SendEvent(te.Event)
			}
			h.mu.RUnlock()
		}
	}
}

// Shutdown stops the hub and releases all store subscriptions
func (h *Hub) Shutdown() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for member, unsubscribe := range h.watches {
		unsubscribe()
		delete(h.watches, member)
	}
	for _, conns := range h.clients {
		for client := range conns {
			client.close()
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	first := len(h.clients[client.safeEmail]) == 0
	if h.clients[client.safeEmail] == nil {
		h.clients[client.safeEmail] = make(map[*Client]bool)
	}
	h.clients[client.safeEmail][client] = true
	h.mu.Unlock()

	if !first {
		return
	}

	// First connection for this member: watch their conversation index
	member := client.safeEmail
	path := docstore.ConversationsPath(member)
	unsubscribe, err := h.store.Subscribe(h.ctx, path, func(data []byte) {
		h.NotifyMember(member, &Event{
			Type:    "conversations",
			Path:    path,
			Payload: data,
		})
	})
	if err != nil {
		pkglogger.GetLogger().Error().Err(err).Str("member", member).Msg("ws: index subscription failed")
		return
	}

	h.mu.Lock()
	h.watches[member] = unsubscribe
	h.mu.Unlock()
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	conns, ok := h.clients[client.safeEmail]
	if !ok || !conns[client] {
		h.mu.Unlock()
		return
	}
	delete(conns, client)
	client.close()
	last := len(conns) == 0
	if last {
		delete(h.clients, client.safeEmail)
	}
	var unsubscribe docstore.UnsubscribeFunc
	if last {
		unsubscribe = h.watches[client.safeEmail]
		delete(h.watches, client.safeEmail)
	}
	h.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
