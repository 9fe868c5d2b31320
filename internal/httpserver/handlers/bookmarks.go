package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/smartbookmarks/bookmarkd/internal/domain"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/deps"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/mw"
	"github.com/smartbookmarks/bookmarkd/internal/logger"
)

type dashboardResponse struct {
	User      *domain.Session `json:"user"`
	Bookmarks []bookmarkView  `json:"bookmarks"`
}

type listResponse struct {
	Bookmarks []bookmarkView `json:"bookmarks"`
}

type createRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// refresh re-fetches the owner's bookmarks from the record store and swaps
// them into the collection wholesale. This is the only path remote data
// takes into collection state.
func refresh(r *http.Request, d deps.Deps, ownerID string) ([]domain.Bookmark, error) {
	var list []domain.Bookmark
	err := withRetry(r.Context(), func() error {
		var ferr error
		list, ferr = d.Bookmarks.ListByOwner(r.Context(), ownerID)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	d.Collections.Get(ownerID).Replace(list)
	return list, nil
}

// Dashboard establishes the signed-in view in one round-trip: the session
// payload plus a fresh bookmark list. The UI suspends rendering until this
// returns.
func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := mw.SessionFrom(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		list, err := refresh(r, d, session.UserID)
		if err != nil {
			d.Logger.Error("failed to fetch bookmarks",
				logger.String("user_id", session.UserID),
				logger.Error(err))
			respondError(w, http.StatusBadGateway, "bookmark store unavailable")
			return
		}

		respondJSON(w, http.StatusOK, dashboardResponse{
			User:      session,
			Bookmarks: annotate(list),
		})
	}
}

// List returns the collection, narrowed by the q parameter. Filtering runs
// over collection state; a collection that has never been populated is
// fetched first.
func List(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := mw.SessionFrom(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		c := d.Collections.Get(session.UserID)
		if c.LastFetch().IsZero() {
			if _, err := refresh(r, d, session.UserID); err != nil {
				d.Logger.Error("failed to fetch bookmarks",
					logger.String("user_id", session.UserID),
					logger.Error(err))
				respondError(w, http.StatusBadGateway, "bookmark store unavailable")
				return
			}
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		filtered := domain.FilterByTitle(c.Bookmarks(), query)

		respondJSON(w, http.StatusOK, listResponse{Bookmarks: annotate(filtered)})
	}
}

// Create validates input locally, inserts the bookmark, then re-fetches the
// whole list. Validation failures never reach the record store.
func Create(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := mw.SessionFrom(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Title = strings.TrimSpace(req.Title)
		req.URL = strings.TrimSpace(req.URL)

		if err := domain.ValidateNewBookmark(req.Title, req.URL); err != nil {
			verr := err.(*domain.ValidationError)
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field})
			return
		}

		err := withRetry(r.Context(), func() error {
			return d.Bookmarks.Insert(r.Context(), req.Title, req.URL, session.UserID)
		})
		if err != nil {
			d.Logger.Error("failed to insert bookmark",
				logger.String("user_id", session.UserID),
				logger.Error(err))
			respondError(w, http.StatusBadGateway, "bookmark store unavailable")
			return
		}

		list, err := refresh(r, d, session.UserID)
		if err != nil {
			d.Logger.Error("failed to re-fetch after insert",
				logger.String("user_id", session.UserID),
				logger.Error(err))
			respondError(w, http.StatusBadGateway, "bookmark store unavailable")
			return
		}

		d.Logger.Info("bookmark created",
			logger.String("user_id", session.UserID),
			logger.String("url", req.URL))

		respondJSON(w, http.StatusCreated, listResponse{Bookmarks: annotate(list)})
	}
}

// Delete removes a bookmark by id, then re-fetches. The delete itself is by
// id only; ownership is enforced by the owner-scoped list query, so a
// deleted foreign id simply never shows up in this user's collection.
func Delete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := mw.SessionFrom(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid bookmark id")
			return
		}

		err = withRetry(r.Context(), func() error {
			return d.Bookmarks.DeleteByID(r.Context(), id)
		})
		if err != nil {
			d.Logger.Error("failed to delete bookmark",
				logger.String("user_id", session.UserID),
				logger.Int64("id", id),
				logger.Error(err))
			respondError(w, http.StatusBadGateway, "bookmark store unavailable")
			return
		}

		list, err := refresh(r, d, session.UserID)
		if err != nil {
			d.Logger.Error("failed to re-fetch after delete",
				logger.String("user_id", session.UserID),
				logger.Error(err))
			respondError(w, http.StatusBadGateway, "bookmark store unavailable")
			return
		}

		d.Logger.Info("bookmark deleted",
			logger.String("user_id", session.UserID),
			logger.Int64("id", id))

		respondJSON(w, http.StatusOK, listResponse{Bookmarks: annotate(list)})
	}
}

// Favorite flips a bookmark's favorite flag in collection state only.
// Nothing is written to the record store, so the flag does not survive the
// next full refresh.
func Favorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := mw.SessionFrom(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid bookmark id")
			return
		}

		c := d.Collections.Get(session.UserID)
		if !c.ToggleFavorite(id) {
			respondError(w, http.StatusNotFound, "bookmark not in collection")
			return
		}

		respondJSON(w, http.StatusOK, listResponse{Bookmarks: annotate(c.Bookmarks())})
	}
}
