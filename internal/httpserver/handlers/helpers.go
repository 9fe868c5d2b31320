package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/smartbookmarks/bookmarkd/internal/domain"
)

const (
	// storeAttempts bounds retries of record-store calls before the
	// failure is surfaced to the user.
	storeAttempts = 3
	storeBackoff  = 100 * time.Millisecond
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// withRetry runs fn up to storeAttempts times with a short fixed backoff.
// Store calls are cheap and idempotent at this layer, so a couple of quick
// retries absorb transient failures without queueing work.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < storeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(storeBackoff):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

// bookmarkView is a bookmark annotated with its derived favicon URL.
type bookmarkView struct {
	domain.Bookmark
	FaviconURL string `json:"favicon_url,omitempty"`
}

func annotate(bookmarks []domain.Bookmark) []bookmarkView {
	views := make([]bookmarkView, 0, len(bookmarks))
	for _, b := range bookmarks {
		view := bookmarkView{Bookmark: b}
		if favicon, ok := domain.FaviconURL(b.URL); ok {
			view.FaviconURL = favicon
		}
		views = append(views, view)
	}
	return views
}
