package collection

import (
	"sync"
	"time"

	"github.com/smartbookmarks/bookmarkd/internal/domain"
)

// Collection is the in-memory authoritative bookmark list for one user.
// Remote-origin data enters only through Replace; there is no incremental
// patch or merge.
type Collection struct {
	mu        sync.RWMutex
	ownerID   string
	bookmarks []domain.Bookmark
	lastFetch time.Time
}

// New creates an empty collection for ownerID.
func New(ownerID string) *Collection {
	return &Collection{
		ownerID:   ownerID,
		bookmarks: make([]domain.Bookmark, 0),
	}
}

// OwnerID returns the user this collection belongs to.
func (c *Collection) OwnerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.ownerID
}

// Replace swaps in a freshly fetched list wholesale. Called after every
// successful fetch or mutation round-trip. Local-only state on the previous
// list (the favorite flags) does not survive a Replace.
func (c *Collection) Replace(bookmarks []domain.Bookmark) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bookmarks = make([]domain.Bookmark, len(bookmarks))
	copy(c.bookmarks, bookmarks)
	c.lastFetch = time.Now()
}

// Bookmarks returns a copy of the current list, order preserved.
func (c *Collection) Bookmarks() []domain.Bookmark {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Bookmark, len(c.bookmarks))
	copy(out, c.bookmarks)
	return out
}

// ToggleFavorite flips the favorite flag on exactly the matching entry.
// It is local and synchronous; no store call is made, and the flag is lost
// on the next Replace. Returns false when id is not in the collection.
func (c *Collection) ToggleFavorite(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.bookmarks {
		if c.bookmarks[i].ID == id {
			c.bookmarks[i].Favorite = !c.bookmarks[i].Favorite
			return true
		}
	}
	return false
}

// Count returns the number of bookmarks in the collection.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.bookmarks)
}

// LastFetch returns the timestamp of the last Replace.
func (c *Collection) LastFetch() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastFetch
}
