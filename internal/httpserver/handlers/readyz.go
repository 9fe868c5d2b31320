package handlers

import (
	"net/http"

	"github.com/smartbookmarks/bookmarkd/internal/httpserver/deps"
	"github.com/smartbookmarks/bookmarkd/internal/logger"
)

type readyzResponse struct {
	Status        string `json:"status"`
	SessionStore  string `json:"session_store"`
	BookmarkStore string `json:"bookmark_store"`
}

// Readyz reports whether both backing stores answer a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		resp := readyzResponse{
			Status:        "ready",
			SessionStore:  "ok",
			BookmarkStore: "ok",
		}
		status := http.StatusOK

		if err := d.Sessions.Ping(r.Context()); err != nil {
			d.Logger.Warn("readyz: session store unreachable", logger.Error(err))
			resp.Status = "degraded"
			resp.SessionStore = "unreachable"
			status = http.StatusServiceUnavailable
		}

		if err := d.Bookmarks.Ping(r.Context()); err != nil {
			d.Logger.Warn("readyz: bookmark store unreachable", logger.Error(err))
			resp.Status = "degraded"
			resp.BookmarkStore = "unreachable"
			status = http.StatusServiceUnavailable
		}

		respondJSON(w, status, resp)
	}
}
