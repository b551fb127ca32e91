// Package event implements a synchronous named-event channel.
//
// A Channel is used in two roles: as an application-wide bus for
// cross-component signals that have no designated sender or receiver, and
// embedded in every component as the carrier of its lifecycle events.
//
// Delivery is synchronous. Emit runs every handler registered for the
// name, in subscription order, before it returns. Handlers may emit
// further events; those run to completion before the outer dispatch
// continues. There are no priorities and no asynchronous delivery.
package event

import (
	"strings"
	"sync"
)

// Handler receives the payload passed to Emit.
type Handler func(payload any)

// Channel is a synchronous publish/subscribe channel.
type Channel struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// New creates an empty channel.
func New() *Channel {
	return &Channel{handlers: make(map[string][]Handler)}
}

// On subscribes h to every event named in names, a comma-separated list
// such as "show,hide". Blank entries are ignored.
func (c *Channel) On(names string, h Handler) {
	if h == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handlers == nil {
		c.handlers = make(map[string][]Handler)
	}
	for _, name := range Split(names) {
		c.handlers[name] = append(c.handlers[name], h)
	}
}

// Emit invokes every handler subscribed to name with payload. Handlers
// subscribed while the dispatch is running are not called for it.
func (c *Channel) Emit(name string, payload any) {
	c.mu.RLock()
	hs := c.handlers[name]
	// Copy so re-entrant On calls cannot alias the slice being iterated.
	snapshot := make([]Handler, len(hs))
	copy(snapshot, hs)
	c.mu.RUnlock()

	for _, h := range snapshot {
		h(payload)
	}
}

// Len returns the number of handlers subscribed to name.
func (c *Channel) Len(name string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers[name])
}

// Reset drops every subscription.
func (c *Channel) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = make(map[string][]Handler)
}

// Split parses a comma-separated event name list.
func Split(names string) []string {
	parts := strings.Split(names, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
