package deps

import (
	"time"

	"github.com/smartbookmarks/bookmarkd/internal/auth"
	"github.com/smartbookmarks/bookmarkd/internal/collection"
	"github.com/smartbookmarks/bookmarkd/internal/logger"
	"github.com/smartbookmarks/bookmarkd/internal/store"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Gate        *auth.Gate           // session gate (establish / create / sign out)
	OAuth       *auth.Provider       // Google OAuth flow
	Bookmarks   store.BookmarkStore  // bookmark record store
	Sessions    store.SessionStore   // session store (readyz ping)
	Collections *collection.Registry // per-user collection state

	EntryURL     string        // unauthenticated landing surface
	AppURL       string        // authenticated app surface
	CookieName   string        // session cookie name
	CookieSecure bool          // Secure flag on cookies
	SessionTTL   time.Duration // session cookie lifetime
	TrustProxy   bool          // trust X-Forwarded-For (e.g. behind cloudflared)

	SeedReloadTrigger chan struct{} // manual seed reload (nil if seeding disabled)

	AuthRateBurst  int // per-IP token bucket burst for /auth
	AuthRatePerMin int // per-IP refill per minute for /auth
}
