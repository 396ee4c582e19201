package broadcast

import (
	"context"
	"errors"
	"sync"
)

// ErrChannelClosed is returned by Publish and Subscribe after Close.
var ErrChannelClosed = errors.New("channel closed")

// MemoryChannel is an in-process Channel for tests and single-box runs.
// Handlers are invoked synchronously in publish order.
type MemoryChannel struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	next     int
	closed   bool
}

// NewMemoryChannel returns an empty in-process channel.
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{handlers: make(map[int]Handler)}
}

func (c *MemoryChannel) Publish(_ context.Context, event Event) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrChannelClosed
	}
	handlers := make([]Handler, 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
	return nil
}

func (c *MemoryChannel) Subscribe(handler Handler) (Unsubscribe, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrChannelClosed
	}
	id := c.next
	c.next++
	c.handlers[id] = handler
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.handlers, id)
		c.mu.Unlock()
	}, nil
}

func (c *MemoryChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = make(map[int]Handler)
	c.closed = true
	return nil
}
