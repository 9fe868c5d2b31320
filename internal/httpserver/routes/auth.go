package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/smartbookmarks/bookmarkd/internal/httpserver/deps"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/handlers"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.AuthRateBurst,
		RefillPerIPPerMin: d.AuthRatePerMin,
		TrustProxy:        d.TrustProxy,
	}))

	limited.Get("/auth/login", handlers.Login(d))
	limited.Get("/auth/callback", handlers.Callback(d))
	limited.Post("/auth/logout", handlers.Logout(d))
}
