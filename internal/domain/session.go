package domain

import "time"

// Profile holds display metadata for the signed-in user.
// Read-only, used for presentation only.
type Profile struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Session represents the authenticated identity for one browser.
// It is an explicit value threaded through handlers, never ambient state.
type Session struct {
	// Token is the opaque session identifier stored in the cookie.
	Token string `json:"-"`

	// UserID is the stable identifier used for all ownership filtering.
	UserID string `json:"user_id"`

	Profile Profile `json:"profile"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
