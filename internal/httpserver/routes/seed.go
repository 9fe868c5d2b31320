package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/smartbookmarks/bookmarkd/internal/httpserver/deps"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/handlers"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/mw"
)

func init() { Register(registerSeed) }

func registerSeed(r chi.Router, d deps.Deps) {
	r.With(mw.RequireSession(d.Gate, d.CookieName, d.Logger)).
		Post("/api/seed/reload", handlers.SeedReload(d))
}
