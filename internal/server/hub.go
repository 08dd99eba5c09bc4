package server

import (
	"sync"

	"github.com/wordclash/wordclash/internal/protocol"
)

// Hub tracks the sockets attached to each session and fans state snapshots
// out to them. Groups are keyed by session id; membership in one group is
// invisible to every other.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[*Client]struct{})}
}

// Join attaches a client to its session's broadcast group.
func (h *Hub) Join(sessionID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[sessionID]
	if !ok {
		group = make(map[*Client]struct{})
		h.groups[sessionID] = group
	}
	group[c] = struct{}{}
}

// Leave detaches a client and closes its send channel. The empty group is
// dropped. Safe to call more than once.
func (h *Hub) Leave(sessionID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[sessionID]
	if !ok {
		return
	}
	if _, attached := group[c]; !attached {
		return
	}
	delete(group, c)
	close(c.send)
	if len(group) == 0 {
		delete(h.groups, sessionID)
	}
}

// Broadcast sends the identical message to every socket of a session.
// Sends are enqueued in call order, so per-session transition order is
// preserved on every connection.
func (h *Hub) Broadcast(sessionID string, msg *protocol.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.groups[sessionID] {
		c.enqueue(msg)
	}
}

// GroupSize returns the number of sockets attached to a session.
func (h *Hub) GroupSize(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[sessionID])
}
