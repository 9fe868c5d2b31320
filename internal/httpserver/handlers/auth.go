package handlers

import (
	"net/http"
	"time"

	"github.com/smartbookmarks/bookmarkd/internal/auth"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/deps"
	"github.com/smartbookmarks/bookmarkd/internal/logger"
)

const stateCookieName = "bookmarkd_oauth_state"

// Login begins the Google OAuth flow: sets a state cookie and redirects the
// browser to the provider's authorize URL.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := auth.NewState()
		if err != nil {
			d.Logger.Error("failed to generate oauth state", logger.Error(err))
			respondError(w, http.StatusInternalServerError, "sign-in unavailable")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/auth",
			MaxAge:   int((10 * time.Minute).Seconds()),
			HttpOnly: true,
			Secure:   d.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, d.OAuth.AuthCodeURL(state), http.StatusFound)
	}
}

// Callback completes the OAuth flow: checks state, exchanges the code,
// creates a session and lands the browser on the app surface. Any failure
// bounces back to the entry surface; sign-in is always retryable.
func Callback(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateCookie, err := r.Cookie(stateCookieName)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
			d.Logger.Warn("oauth callback with bad state")
			http.Redirect(w, r, d.EntryURL, http.StatusFound)
			return
		}

		// State is single-use
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    "",
			Path:     "/auth",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   d.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		code := r.URL.Query().Get("code")
		if code == "" {
			d.Logger.Warn("oauth callback without code")
			http.Redirect(w, r, d.EntryURL, http.StatusFound)
			return
		}

		userID, profile, err := d.OAuth.Exchange(r.Context(), code)
		if err != nil {
			d.Logger.Error("oauth exchange failed", logger.Error(err))
			http.Redirect(w, r, d.EntryURL, http.StatusFound)
			return
		}

		session, err := d.Gate.CreateSession(r.Context(), userID, profile)
		if err != nil {
			d.Logger.Error("failed to create session", logger.Error(err))
			http.Redirect(w, r, d.EntryURL, http.StatusFound)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     d.CookieName,
			Value:    session.Token,
			Path:     "/",
			MaxAge:   int(d.SessionTTL.Seconds()),
			HttpOnly: true,
			Secure:   d.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		d.Logger.Info("user signed in",
			logger.String("user_id", userID))

		http.Redirect(w, r, d.AppURL, http.StatusFound)
	}
}

// Logout invalidates the session, clears the cookie and redirects to the
// entry surface. Invalidation is fire-and-forget.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(d.CookieName); err == nil {
			// Per-user collection state dies with the session
			if session, err := d.Gate.EstablishSession(r.Context(), c.Value); err == nil {
				d.Collections.Evict(session.UserID)
			}
			d.Gate.SignOut(r.Context(), c.Value)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     d.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   d.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, d.EntryURL, http.StatusFound)
	}
}
