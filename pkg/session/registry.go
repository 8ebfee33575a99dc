// Package session generalizes the connection-pool idiom to a domain with
// no transport: a concurrency-safe registry of many ratchet.Session
// handles keyed by peer identity, so an application can hold and drive
// independent sessions for different peers on different goroutines.
package session

import (
	"sync"
	"time"

	tallowerrors "github.com/tallowteam/Tallow-sub001/internal/errors"
	"github.com/tallowteam/Tallow-sub001/pkg/ratchet"
)

// entry wraps a registered session with its bookkeeping.
type entry struct {
	session    *ratchet.Session
	registered time.Time
}

// Registry owns a set of ratchet.Session handles keyed by peer id. It
// performs no I/O and holds no transport state; it exists purely to give
// callers one place to register, fetch, and tear down per-peer sessions
// instead of managing their own map and mutex.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	stats   *Stats
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		stats:   newStats(),
	}
}

// Register adds sess under peerID. It returns a ProtocolError if a
// session is already registered for that peer; callers that want to
// replace an existing session must Remove it first.
func (r *Registry) Register(peerID string, sess *ratchet.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[peerID]; exists {
		return tallowerrors.NewProtocolError("session-registry-register", tallowerrors.ErrProtocol)
	}

	r.entries[peerID] = &entry{session: sess, registered: time.Now()}
	r.stats.recordRegistered(int64(len(r.entries)))
	return nil
}

// Get returns the session registered for peerID, if any.
func (r *Registry) Get(peerID string) (*ratchet.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[peerID]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Remove destroys and unregisters the session for peerID, if present.
// Removing an id with no registered session is not an error.
func (r *Registry) Remove(peerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[peerID]
	if !ok {
		return
	}
	delete(r.entries, peerID)
	r.stats.recordRemoved(int64(len(r.entries)))
	e.session.Destroy()
}

// Len returns the number of currently registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// PeerIDs returns the ids of every currently registered session.
func (r *Registry) PeerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

// CloseAll destroys every registered session and empties the registry.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.stats.recordRemoved(0)
	r.mu.Unlock()

	for _, e := range entries {
		e.session.Destroy()
	}
}

// Stats returns a snapshot of registry-wide statistics.
func (r *Registry) Stats() StatsSnapshot {
	return r.stats.Snapshot()
}
