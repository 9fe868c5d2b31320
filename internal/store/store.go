// Package store defines the persistence contracts for bookmarkd.
// Implementations live in the sqlite and redis subpackages.
package store

import (
	"context"
	"errors"

	"github.com/smartbookmarks/bookmarkd/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// BookmarkStore is the bookmark record store. All reads are scoped by the
// owning user; deletes are by record id only, ownership is enforced by the
// owner-filtered list query.
type BookmarkStore interface {
	// ListByOwner returns the owner's bookmarks ordered by id descending
	// (most recently created first). It returns an empty, non-nil slice
	// when the owner has no bookmarks; a non-nil error means the fetch
	// itself failed, which callers must report distinctly from "empty".
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Bookmark, error)

	// Insert stores a new bookmark. Title and url must already be
	// validated; the store assigns the id. Callers re-fetch after success.
	Insert(ctx context.Context, title, url, ownerID string) error

	// DeleteByID removes a bookmark by id. Deleting a missing id is not
	// an error.
	DeleteByID(ctx context.Context, id int64) error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// SessionStore holds live sessions keyed by opaque token.
type SessionStore interface {
	// Create stores the session under its token with the store's TTL.
	Create(ctx context.Context, session *domain.Session) error

	// Get returns the session for token, or ErrNotFound when the token
	// is unknown or expired.
	Get(ctx context.Context, token string) (*domain.Session, error)

	// Delete invalidates the session for token. Deleting an unknown
	// token is not an error.
	Delete(ctx context.Context, token string) error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
