// Package events is a small in-process publish/subscribe hub keyed by signal
// name. The VPN service publishes "status-changed" on it and the session
// store, the tray and the D-Bus bridge subscribe.
package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yllada/adguardvpn-desktop/common"
)

// Handler receives the payload of a published signal.
type Handler = func(payload any)

// Hub delivers published payloads to every subscriber of a signal.
// Handlers run synchronously on the publisher's goroutine, in no
// particular order, and must not block.
type Hub struct {
	mu       sync.RWMutex
	handlers map[string]map[string]Handler
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{handlers: make(map[string]map[string]Handler)}
}

// Subscribe registers handler for signal and returns a function that
// removes it. The returned function is safe to call more than once.
func (h *Hub) Subscribe(signal string, handler Handler) func() {
	id := uuid.New().String()

	h.mu.Lock()
	subs, ok := h.handlers[signal]
	if !ok {
		subs = make(map[string]Handler)
		h.handlers[signal] = subs
	}
	subs[id] = handler
	h.mu.Unlock()

	common.LogDebug("events: subscribed %s to %q", id, signal)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.handlers[signal], id)
			if len(h.handlers[signal]) == 0 {
				delete(h.handlers, signal)
			}
		})
	}
}

// Publish delivers payload to the current subscribers of signal.
func (h *Hub) Publish(signal string, payload any) {
	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.handlers[signal]))
	for _, handler := range h.handlers[signal] {
		handlers = append(handlers, handler)
	}
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(payload)
	}
}

// Subscribers returns the number of handlers registered for signal.
func (h *Hub) Subscribers(signal string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.handlers[signal])
}
