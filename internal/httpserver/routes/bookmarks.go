package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/smartbookmarks/bookmarkd/internal/httpserver/deps"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/handlers"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	authed := r.With(mw.RequireSession(d.Gate, d.CookieName, d.Logger))

	authed.Get("/api/dashboard", handlers.Dashboard(d))
	authed.Get("/api/bookmarks", handlers.List(d))
	authed.Post("/api/bookmarks", handlers.Create(d))
	authed.Delete("/api/bookmarks/{id}", handlers.Delete(d))
	authed.Post("/api/bookmarks/{id}/favorite", handlers.Favorite(d))
}
