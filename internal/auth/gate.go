package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/smartbookmarks/bookmarkd/internal/domain"
	"github.com/smartbookmarks/bookmarkd/internal/logger"
	"github.com/smartbookmarks/bookmarkd/internal/store"
)

// ErrNoSession is returned when no valid session exists for a request.
// Callers redirect to the entry surface and perform no bookmark work.
var ErrNoSession = errors.New("no valid session")

// Gate establishes and tears down sessions. A session-store outage is
// treated as "no session": the user is bounced to the entry surface and
// can retry by signing in again.
type Gate struct {
	sessions store.SessionStore
	ttl      time.Duration
	logger   logger.Logger
}

// NewGate creates a session gate over the given session store.
func NewGate(sessions store.SessionStore, ttl time.Duration, log logger.Logger) *Gate {
	return &Gate{
		sessions: sessions,
		ttl:      ttl,
		logger:   log,
	}
}

// EstablishSession resolves the session for token. An empty, unknown or
// expired token yields ErrNoSession.
func (g *Gate) EstablishSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	session, err := g.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoSession
		}
		// Session store unreachable: treated as signed out rather than
		// surfacing a 5xx on every page load.
		g.logger.Warn("session store unavailable, treating as no session",
			logger.Error(err))
		return nil, ErrNoSession
	}

	if session.Expired(time.Now()) {
		return nil, ErrNoSession
	}

	return session, nil
}

// CreateSession mints a session for userID after a completed sign-in and
// stores it under a fresh opaque token.
func (g *Gate) CreateSession(ctx context.Context, userID string, profile domain.Profile) (*domain.Session, error) {
	now := time.Now()
	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Profile:   profile,
		CreatedAt: now,
		ExpiresAt: now.Add(g.ttl),
	}

	if err := g.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut invalidates the session for token. Fire-and-forget: failures are
// logged but not surfaced, the caller clears the cookie and redirects either
// way.
func (g *Gate) SignOut(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := g.sessions.Delete(ctx, token); err != nil {
		g.logger.Warn("failed to invalidate session", logger.Error(err))
	}
}
