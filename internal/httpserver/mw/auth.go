package mw

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/smartbookmarks/bookmarkd/internal/auth"
	"github.com/smartbookmarks/bookmarkd/internal/domain"
	"github.com/smartbookmarks/bookmarkd/internal/logger"
)

// contextKey is unexported to avoid collisions with other packages.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionFrom extracts the authenticated session from the request context.
func SessionFrom(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*domain.Session)
	return s, ok
}

// RequireSession gates API routes behind a valid session cookie. Requests
// without one get a 401 and never reach the bookmark handlers.
func RequireSession(gate *auth.Gate, cookieName string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(cookieName); err == nil {
				token = c.Value
			}

			session, err := gate.EstablishSession(r.Context(), token)
			if err != nil {
				log.Debug("request without valid session",
					logger.String("path", r.URL.Path))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "authentication required",
				})
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession injects a session into the request context. Test helper.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}
