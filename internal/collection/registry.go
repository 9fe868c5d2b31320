package collection

import (
	"sync"
	"time"
)

// Registry holds one Collection per signed-in user. Collections are created
// lazily on first access and evicted after sitting idle (see the scheduler
// package); they are caches over the record store, so eviction loses only
// local-only presentation state.
type Registry struct {
	mu          sync.RWMutex
	collections map[string]*Collection // owner id -> collection
	lastAccess  map[string]time.Time   // owner id -> last Get
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		collections: make(map[string]*Collection),
		lastAccess:  make(map[string]time.Time),
	}
}

// Get returns the collection for ownerID, creating it if needed, and marks
// it as recently used.
func (r *Registry) Get(ownerID string) *Collection {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[ownerID]
	if !ok {
		c = New(ownerID)
		r.collections[ownerID] = c
	}
	r.lastAccess[ownerID] = time.Now()
	return c
}

// Evict removes the collection for ownerID.
func (r *Registry) Evict(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.collections, ownerID)
	delete(r.lastAccess, ownerID)
}

// EvictIdle removes every collection whose last access is older than
// threshold and returns how many were evicted.
func (r *Registry) EvictIdle(threshold time.Duration, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for ownerID, last := range r.lastAccess {
		if now.Sub(last) > threshold {
			delete(r.collections, ownerID)
			delete(r.lastAccess, ownerID)
			evicted++
		}
	}
	return evicted
}

// Count returns the number of live collections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.collections)
}
