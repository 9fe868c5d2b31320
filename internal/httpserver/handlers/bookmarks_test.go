package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smartbookmarks/bookmarkd/internal/auth"
	"github.com/smartbookmarks/bookmarkd/internal/collection"
	"github.com/smartbookmarks/bookmarkd/internal/domain"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/deps"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/mw"
	"github.com/smartbookmarks/bookmarkd/internal/logger"
	"github.com/smartbookmarks/bookmarkd/internal/store"
)

// fakeBookmarkStore is an in-memory store.BookmarkStore that records calls
// and can be forced to fail.
type fakeBookmarkStore struct {
	nextID      int64
	byOwner     map[string][]domain.Bookmark
	listCalls   int
	insertCalls int
	deleteCalls int
	listErr     error
	insertErr   error
}

func newFakeBookmarkStore() *fakeBookmarkStore {
	return &fakeBookmarkStore{byOwner: make(map[string][]domain.Bookmark)}
}

func (f *fakeBookmarkStore) ListByOwner(_ context.Context, ownerID string) ([]domain.Bookmark, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	list := f.byOwner[ownerID]
	out := make([]domain.Bookmark, len(list))
	// Stored oldest-first; serve newest-first like the real store.
	for i, b := range list {
		out[len(list)-1-i] = b
	}
	return out, nil
}

func (f *fakeBookmarkStore) Insert(_ context.Context, title, url, ownerID string) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	f.byOwner[ownerID] = append(f.byOwner[ownerID], domain.Bookmark{
		ID:        f.nextID,
		OwnerID:   ownerID,
		Title:     title,
		URL:       url,
		CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeBookmarkStore) DeleteByID(_ context.Context, id int64) error {
	f.deleteCalls++
	for owner, list := range f.byOwner {
		kept := list[:0]
		for _, b := range list {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		f.byOwner[owner] = kept
	}
	return nil
}

func (f *fakeBookmarkStore) Ping(context.Context) error { return nil }

// fakeSessionStore holds sessions in a map.
type fakeSessionStore struct {
	sessions map[string]*domain.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*domain.Session)}
}

func (f *fakeSessionStore) Create(_ context.Context, s *domain.Session) error {
	f.sessions[s.Token] = s
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionStore) Ping(context.Context) error { return nil }

const testCookie = "bookmarkd_session"

func testDeps(bookmarks *fakeBookmarkStore, sessions *fakeSessionStore) deps.Deps {
	log := logger.New("error", false)
	return deps.Deps{
		Logger:      log,
		TimeNow:     time.Now,
		Gate:        auth.NewGate(sessions, time.Hour, log),
		Bookmarks:   bookmarks,
		Sessions:    sessions,
		Collections: collection.NewRegistry(),
		EntryURL:    "http://localhost/",
		AppURL:      "http://localhost/app",
		CookieName:  testCookie,
		SessionTTL:  time.Hour,
	}
}

// newBookmarkRouter mirrors the production route wiring for the bookmark API.
func newBookmarkRouter(d deps.Deps) http.Handler {
	r := chi.NewRouter()
	authed := r.With(mw.RequireSession(d.Gate, d.CookieName, d.Logger))
	authed.Get("/api/dashboard", Dashboard(d))
	authed.Get("/api/bookmarks", List(d))
	authed.Post("/api/bookmarks", Create(d))
	authed.Delete("/api/bookmarks/{id}", Delete(d))
	authed.Post("/api/bookmarks/{id}/favorite", Favorite(d))
	return r
}

// signIn creates a session directly in the fake store and returns its cookie.
func signIn(t *testing.T, sessions *fakeSessionStore, userID string) *http.Cookie {
	t.Helper()
	now := time.Now()
	s := &domain.Session{
		Token:     "tok-" + userID,
		UserID:    userID,
		Profile:   domain.Profile{Name: "Ada", Email: "ada@example.com"},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	if err := sessions.Create(context.Background(), s); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return &http.Cookie{Name: testCookie, Value: s.Token}
}

func doJSON(t *testing.T, h http.Handler, method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) listResponse {
	t.Helper()
	var resp listResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestBookmarksWithoutSession(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	h := newBookmarkRouter(testDeps(bookmarks, newFakeSessionStore()))

	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/dashboard"},
		{http.MethodGet, "/api/bookmarks"},
		{http.MethodPost, "/api/bookmarks"},
		{http.MethodDelete, "/api/bookmarks/1"},
		{http.MethodPost, "/api/bookmarks/1/favorite"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.target, "", nil)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}

	if bookmarks.listCalls != 0 || bookmarks.insertCalls != 0 || bookmarks.deleteCalls != 0 {
		t.Errorf("unauthenticated requests reached the store: list=%d insert=%d delete=%d",
			bookmarks.listCalls, bookmarks.insertCalls, bookmarks.deleteCalls)
	}
}

func TestDashboardReturnsUserAndBookmarks(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	cookie := signIn(t, sessions, "user-1")

	_ = bookmarks.Insert(context.Background(), "Go Docs", "https://go.dev/doc", "user-1")

	rec := doJSON(t, h, http.MethodGet, "/api/dashboard", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp dashboardResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User == nil || resp.User.UserID != "user-1" {
		t.Errorf("dashboard user = %+v, want user-1", resp.User)
	}
	if len(resp.Bookmarks) != 1 || resp.Bookmarks[0].Title != "Go Docs" {
		t.Errorf("dashboard bookmarks = %+v, want the seeded entry", resp.Bookmarks)
	}
	if resp.Bookmarks[0].FaviconURL == "" {
		t.Error("dashboard bookmark has no favicon URL")
	}
}

func TestListEmptyIsOKNotError(t *testing.T) {
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(newFakeBookmarkStore(), sessions))
	cookie := signIn(t, sessions, "user-1")

	rec := doJSON(t, h, http.MethodGet, "/api/bookmarks", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an empty collection", rec.Code)
	}
	resp := decodeList(t, rec)
	if resp.Bookmarks == nil {
		t.Error("empty collection serialized as null, want []")
	}
	if len(resp.Bookmarks) != 0 {
		t.Errorf("empty collection returned %d bookmarks", len(resp.Bookmarks))
	}
}

func TestListStoreDownIsBadGateway(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	bookmarks.listErr = errors.New("connection refused")
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	cookie := signIn(t, sessions, "user-1")

	rec := doJSON(t, h, http.MethodGet, "/api/bookmarks", "", cookie)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502 when the store is down", rec.Code)
	}
	if bookmarks.listCalls != storeAttempts {
		t.Errorf("store called %d times, want %d retried attempts", bookmarks.listCalls, storeAttempts)
	}
}

func TestListFiltersByTitle(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	cookie := signIn(t, sessions, "user-1")

	ctx := context.Background()
	_ = bookmarks.Insert(ctx, "Go Documentation", "https://go.dev/doc", "user-1")
	_ = bookmarks.Insert(ctx, "Rust Book", "https://doc.rust-lang.org/book", "user-1")
	_ = bookmarks.Insert(ctx, "The Go Blog", "https://go.dev/blog", "user-1")

	rec := doJSON(t, h, http.MethodGet, "/api/bookmarks?q=go", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeList(t, rec)
	if len(resp.Bookmarks) != 2 {
		t.Fatalf("filter matched %d bookmarks, want 2", len(resp.Bookmarks))
	}
	// Relative order preserved: newest-first.
	if resp.Bookmarks[0].Title != "The Go Blog" || resp.Bookmarks[1].Title != "Go Documentation" {
		t.Errorf("filtered order = [%q, %q], want newest-first",
			resp.Bookmarks[0].Title, resp.Bookmarks[1].Title)
	}
}

func TestCreateValidationNeverReachesStore(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	cookie := signIn(t, sessions, "user-1")

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "missing title", body: `{"url":"https://go.dev"}`, wantField: "title"},
		{name: "missing url", body: `{"title":"Go"}`, wantField: "url"},
		{name: "whitespace title", body: `{"title":"   ","url":"https://go.dev"}`, wantField: "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/bookmarks", tt.body, cookie)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var resp errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", resp.Field, tt.wantField)
			}
		})
	}

	if bookmarks.insertCalls != 0 {
		t.Errorf("validation failures issued %d insert calls, want 0", bookmarks.insertCalls)
	}
}

func TestCreateThenListNewestFirst(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	cookie := signIn(t, sessions, "user-1")

	ctx := context.Background()
	_ = bookmarks.Insert(ctx, "Old", "https://old.example.com", "user-1")

	rec := doJSON(t, h, http.MethodPost, "/api/bookmarks",
		`{"title":"New","url":"https://new.example.com"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	resp := decodeList(t, rec)
	if len(resp.Bookmarks) != 2 {
		t.Fatalf("create returned %d bookmarks, want 2", len(resp.Bookmarks))
	}
	if resp.Bookmarks[0].Title != "New" {
		t.Errorf("first bookmark = %q, want the freshly created one", resp.Bookmarks[0].Title)
	}
}

func TestCreateStoreDownIsBadGateway(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	bookmarks.insertErr = errors.New("connection refused")
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	cookie := signIn(t, sessions, "user-1")

	rec := doJSON(t, h, http.MethodPost, "/api/bookmarks",
		`{"title":"Go","url":"https://go.dev"}`, cookie)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502 when the store is down", rec.Code)
	}
	if bookmarks.insertCalls != storeAttempts {
		t.Errorf("insert called %d times, want %d retried attempts", bookmarks.insertCalls, storeAttempts)
	}
}

func TestDeleteRemovesFromList(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	cookie := signIn(t, sessions, "user-1")

	ctx := context.Background()
	_ = bookmarks.Insert(ctx, "Keep", "https://keep.example.com", "user-1")
	_ = bookmarks.Insert(ctx, "Drop", "https://drop.example.com", "user-1")

	rec := doJSON(t, h, http.MethodDelete, "/api/bookmarks/2", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	resp := decodeList(t, rec)
	if len(resp.Bookmarks) != 1 || resp.Bookmarks[0].Title != "Keep" {
		t.Errorf("list after delete = %+v, want only the kept bookmark", resp.Bookmarks)
	}
}

func TestDeleteInvalidID(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	cookie := signIn(t, sessions, "user-1")

	rec := doJSON(t, h, http.MethodDelete, "/api/bookmarks/not-a-number", "", cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if bookmarks.deleteCalls != 0 {
		t.Errorf("invalid id issued %d delete calls, want 0", bookmarks.deleteCalls)
	}
}

func TestFavoriteTogglesWithoutStoreWrites(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	cookie := signIn(t, sessions, "user-1")

	ctx := context.Background()
	_ = bookmarks.Insert(ctx, "Go Docs", "https://go.dev/doc", "user-1")

	// Populate the collection first.
	if rec := doJSON(t, h, http.MethodGet, "/api/bookmarks", "", cookie); rec.Code != http.StatusOK {
		t.Fatalf("priming list failed with status %d", rec.Code)
	}
	listCallsBefore := bookmarks.listCalls

	rec := doJSON(t, h, http.MethodPost, "/api/bookmarks/1/favorite", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeList(t, rec)
	if len(resp.Bookmarks) != 1 || !resp.Bookmarks[0].Favorite {
		t.Errorf("favorite flag not set: %+v", resp.Bookmarks)
	}

	if bookmarks.listCalls != listCallsBefore {
		t.Error("favorite toggle hit the record store, want collection-only")
	}

	// Toggling again flips it back.
	rec = doJSON(t, h, http.MethodPost, "/api/bookmarks/1/favorite", "", cookie)
	resp = decodeList(t, rec)
	if resp.Bookmarks[0].Favorite {
		t.Error("second toggle did not clear the favorite flag")
	}
}

func TestFavoriteUnknownIDIsNotFound(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	cookie := signIn(t, sessions, "user-1")

	rec := doJSON(t, h, http.MethodPost, "/api/bookmarks/42/favorite", "", cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for an id outside the collection", rec.Code)
	}
}

func TestFavoriteLostOnRefresh(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	cookie := signIn(t, sessions, "user-1")

	ctx := context.Background()
	_ = bookmarks.Insert(ctx, "Go Docs", "https://go.dev/doc", "user-1")

	doJSON(t, h, http.MethodGet, "/api/bookmarks", "", cookie)
	doJSON(t, h, http.MethodPost, "/api/bookmarks/1/favorite", "", cookie)

	// A create triggers a wholesale refresh, which drops the local flag.
	rec := doJSON(t, h, http.MethodPost, "/api/bookmarks",
		`{"title":"New","url":"https://new.example.com"}`, cookie)
	resp := decodeList(t, rec)
	for _, b := range resp.Bookmarks {
		if b.Favorite {
			t.Errorf("favorite flag on %q survived a refresh, want it dropped", b.Title)
		}
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	bookmarks := newFakeBookmarkStore()
	sessions := newFakeSessionStore()
	h := newBookmarkRouter(testDeps(bookmarks, sessions))
	aliceCookie := signIn(t, sessions, "alice")
	bobCookie := signIn(t, sessions, "bob")

	ctx := context.Background()
	_ = bookmarks.Insert(ctx, "Alice's", "https://alice.example.com", "alice")
	_ = bookmarks.Insert(ctx, "Bob's", "https://bob.example.com", "bob")

	rec := doJSON(t, h, http.MethodGet, "/api/bookmarks", "", aliceCookie)
	resp := decodeList(t, rec)
	if len(resp.Bookmarks) != 1 || resp.Bookmarks[0].Title != "Alice's" {
		t.Errorf("alice's list = %+v, want only her bookmark", resp.Bookmarks)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/bookmarks", "", bobCookie)
	resp = decodeList(t, rec)
	if len(resp.Bookmarks) != 1 || resp.Bookmarks[0].Title != "Bob's" {
		t.Errorf("bob's list = %+v, want only his bookmark", resp.Bookmarks)
	}
}
