// Package broadcast fans byte payloads out to in-process subscribers.
package broadcast

import (
	"sync"
)

const DefaultBuffer = 16

// Hub delivers every broadcast payload to all current subscribers. A slow
// subscriber whose buffer is full misses payloads instead of blocking the hub.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan []byte]struct{}
	buffer int
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{subs: make(map[chan []byte]struct{}), buffer: buffer}
}

// Subscribe returns the payload channel and a function that ends the
// subscription and closes the channel. After Close it returns a closed channel.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, h.buffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

// Broadcast reports how many subscribers received the payload.
func (h *Hub) Broadcast(payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subs {
		select {
		case ch <- payload:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends all subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
