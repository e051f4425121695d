package ws

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks which users currently have a live, registered session and
// which client to use to reach them. It is the only mutable state shared
// between the hub and the delivery path, so every mutation goes through its
// lock and nothing else touches the map.
type Registry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Client
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[uuid.UUID]*Client)}
}

// Register inserts or replaces the entry for userID. A user has at most one
// live session: when a second connection announces the same user, the old
// client is returned so the caller can shut it down.
func (r *Registry) Register(userID uuid.UUID, c *Client) (replaced *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.entries[userID]
	r.entries[userID] = c
	if old == c {
		return nil
	}
	return old
}

// Unregister removes the entry for userID, but only if it still points at c.
// Disconnect races with a replacing registration are expected; losing one is
// a no-op and the method reports whether the entry was actually removed.
func (r *Registry) Unregister(userID uuid.UUID, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries[userID] != c {
		return false
	}
	delete(r.entries, userID)
	return true
}

// Lookup returns the live client for userID, if any.
func (r *Registry) Lookup(userID uuid.UUID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.entries[userID]
	return c, ok
}

// OnlineUserIDs enumerates every user with a live session.
func (r *Registry) OnlineUserIDs() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

// Clients snapshots every registered client, for broadcasts.
func (r *Registry) Clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.entries))
	for _, c := range r.entries {
		clients = append(clients, c)
	}
	return clients
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
