package domain

import "time"

// Bookmark represents one saved link belonging to a single user.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the record store at insert time.
	// IDs are monotonically increasing, so ordering by ID descending
	// yields most-recently-created-first.
	ID int64 `json:"id"`

	// OwnerID is the user that created the bookmark. Set once, never changed.
	// Every list query is scoped by this field.
	OwnerID string `json:"owner_id"`

	// ─────────────────────────────
	// User-supplied content
	// ─────────────────────────────

	// Title is the display string shown in the dashboard.
	// Example: "Go documentation"
	Title string `json:"title"`

	// URL is the saved link. Checked for non-emptiness at creation,
	// not otherwise validated.
	URL string `json:"url"`

	// ─────────────────────────────
	// Presentation state
	// ─────────────────────────────

	// Favorite is a collection-local flag. It is never written back to
	// the record store and resets on every full refresh.
	Favorite bool `json:"favorite"`

	// Tags is reserved for future use. Always empty.
	Tags []string `json:"tags,omitempty"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set by the record store at insert time.
	CreatedAt time.Time `json:"created_at"`
}
