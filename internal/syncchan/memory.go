package syncchan

import (
	"context"
	"sync"

	"github.com/linkhaven/linkhaven/internal/domain"
)

// Hub is an in-process broadcast transport: every endpoint created
// from the same hub hears every other endpoint's messages. Used when
// all of an owner's sessions live in one process, and by tests.
type Hub struct {
	mu        sync.RWMutex
	endpoints map[string]*memoryChannel
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{endpoints: make(map[string]*memoryChannel)}
}

// Channel attaches a new endpoint to the hub.
func (h *Hub) Channel() Channel {
	c := &memoryChannel{
		hub:      h,
		sender:   newSenderID(),
		handlers: make(map[int]Handler),
	}
	h.mu.Lock()
	h.endpoints[c.sender] = c
	h.mu.Unlock()
	return c
}

// broadcast delivers msg to every endpoint except the sender.
func (h *Hub) broadcast(msg domain.SyncMessage) {
	h.mu.RLock()
	targets := make([]*memoryChannel, 0, len(h.endpoints))
	for sender, c := range h.endpoints {
		if sender != msg.Sender {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.dispatch(msg)
	}
}

func (h *Hub) detach(sender string) {
	h.mu.Lock()
	delete(h.endpoints, sender)
	h.mu.Unlock()
}

type memoryChannel struct {
	hub    *Hub
	sender string

	mu       sync.Mutex
	handlers map[int]Handler
	nextID   int
	closed   bool
}

func (c *memoryChannel) NotifyInsert(_ context.Context, record *domain.Bookmark) {
	c.hub.broadcast(message(domain.SyncInsert, c.sender, record.Clone(), record.ID))
}

func (c *memoryChannel) NotifyUpdate(_ context.Context, record *domain.Bookmark) {
	c.hub.broadcast(message(domain.SyncUpdate, c.sender, record.Clone(), record.ID))
}

func (c *memoryChannel) NotifyDelete(_ context.Context, id string) {
	c.hub.broadcast(message(domain.SyncDelete, c.sender, nil, id))
}

func (c *memoryChannel) NotifyRefresh(_ context.Context) {
	c.hub.broadcast(message(domain.SyncRefresh, c.sender, nil, ""))
}

func (c *memoryChannel) Subscribe(handler Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.handlers[id] = handler
	return func() {
		c.mu.Lock()
		delete(c.handlers, id)
		c.mu.Unlock()
	}
}

func (c *memoryChannel) dispatch(msg domain.SyncMessage) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(msg)
	}
}

func (c *memoryChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.handlers = make(map[int]Handler)
	c.mu.Unlock()

	c.hub.detach(c.sender)
	return nil
}
