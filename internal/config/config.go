package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Navigation surfaces
	EntryURL string // where unauthenticated users land (ex: https://bookmarks.example.com/)
	AppURL   string // where authenticated users land (ex: https://bookmarks.example.com/dashboard)

	// Bookmark record store (SQLite)
	DBPath   string // path to the bookmarks database file
	SeedFile string // path to an optional bookmarks.yaml seed file (empty = seeding disabled)

	// Sessions
	SessionTTL   time.Duration // session lifetime (default: 7 days)
	CookieName   string        // session cookie name
	CookieSecure bool          // true => Secure flag on cookies (disable only for local dev)

	// Google OAuth
	OAuthClientID     string // Google OAuth client id
	OAuthClientSecret string // Google OAuth client secret
	OAuthRedirectURL  string // ex: https://bookmarks.example.com/auth/callback

	// Collection registry eviction
	EvictInterval  time.Duration // how often idle collections are swept (default: 1h)
	EvictThreshold time.Duration // idle duration after which a collection is evicted (default: 12h)

	// Redis (session store)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	TrustProxy bool // true => trust X-Forwarded-For headers (e.g. cloudflared)

	// Rate limiting for /auth endpoints
	AuthRateBurst  int // token bucket burst per IP
	AuthRatePerMin int // token refill per IP per minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BOOKMARKD_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BOOKMARKD_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("BOOKMARKD_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BOOKMARKD_PRETTY_LOG", true),

		// Navigation
		EntryURL: requireEnv("BOOKMARKD_ENTRY_URL"),
		AppURL:   requireEnv("BOOKMARKD_APP_URL"),

		// Record store
		DBPath:   getenv("BOOKMARKD_DB_PATH", "/data/bookmarks.db"),
		SeedFile: getenv("BOOKMARKD_SEED_FILE", ""), // Optional, empty = seeding disabled

		// Sessions
		SessionTTL:   mustDuration("BOOKMARKD_SESSION_TTL", 7*24*time.Hour),
		CookieName:   getenv("BOOKMARKD_COOKIE_NAME", "bookmarkd_session"),
		CookieSecure: mustBool("BOOKMARKD_COOKIE_SECURE", true),

		// Google OAuth
		OAuthClientID:     requireEnv("BOOKMARKD_OAUTH_CLIENT_ID"),
		OAuthClientSecret: requireEnv("BOOKMARKD_OAUTH_CLIENT_SECRET"),
		OAuthRedirectURL:  requireEnv("BOOKMARKD_OAUTH_REDIRECT_URL"),

		// Collection eviction
		EvictInterval:  mustDuration("BOOKMARKD_EVICT_INTERVAL", time.Hour),
		EvictThreshold: mustDuration("BOOKMARKD_EVICT_THRESHOLD", 12*time.Hour),

		// Redis settings
		RedisAddr:             requireEnv("BOOKMARKD_REDIS_ADDR"),
		RedisUser:             getenv("BOOKMARKD_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("BOOKMARKD_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("BOOKMARKD_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("BOOKMARKD_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		TrustProxy: mustBool("BOOKMARKD_TRUST_PROXY", true),

		// Rate limiting
		AuthRateBurst:  getenvInt("BOOKMARKD_AUTH_RATE_BURST", 10),
		AuthRatePerMin: getenvInt("BOOKMARKD_AUTH_RATE_PER_MIN", 30),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: BOOKMARKD_REDIS_PASSWORD is required when BOOKMARKD_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.OAuthClientSecret = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid duration value for %s: %s", key, v))
	}
	return d
}

func mustBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid boolean value for %s: %s", key, v))
	}
	return b
}
