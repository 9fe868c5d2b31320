package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/smartbookmarks/bookmarkd/internal/auth"
	"github.com/smartbookmarks/bookmarkd/internal/collection"
	"github.com/smartbookmarks/bookmarkd/internal/config"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver"
	"github.com/smartbookmarks/bookmarkd/internal/httpserver/deps"
	"github.com/smartbookmarks/bookmarkd/internal/logger"
	"github.com/smartbookmarks/bookmarkd/internal/redis"
	"github.com/smartbookmarks/bookmarkd/internal/scheduler"
	redisstore "github.com/smartbookmarks/bookmarkd/internal/store/redis"
	"github.com/smartbookmarks/bookmarkd/internal/store/sqlite"
	"github.com/smartbookmarks/bookmarkd/internal/version"
)

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	server       *httpserver.Server
	redisClient  *goredis.Client
	bookmarks    *sqlite.Store
	collections  *collection.Registry
	seedReloader *scheduler.SeedReloader
	evictor      *scheduler.CollectionEvictor
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Bookmark record store
	bookmarks, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		loggerClient.Errorf("Failed to open bookmark store at %s: %v", cfg.DBPath, err)
		os.Exit(1)
	}
	loggerClient.Info("bookmark store opened",
		logger.String("path", cfg.DBPath))

	// Session store and gate
	sessions := redisstore.NewSessionStore(redisClient, cfg.SessionTTL)
	gate := auth.NewGate(sessions, cfg.SessionTTL, loggerClient)

	// OAuth provider
	oauth := auth.NewProvider(cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthRedirectURL)

	// Per-user collection state
	collections := collection.NewRegistry()

	// Idle-collection evictor
	evictor := scheduler.NewCollectionEvictor(
		collections,
		loggerClient,
		cfg.EvictInterval,
		cfg.EvictThreshold,
	)

	// Seed reloader (if a seed file is configured)
	var seedReloader *scheduler.SeedReloader
	var seedReloadTrigger chan struct{}
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing seed reloader",
			logger.String("file", cfg.SeedFile))
		seedReloadTrigger = make(chan struct{}, 1)
		seedReloader = scheduler.NewSeedReloader(
			cfg.SeedFile,
			bookmarks,
			loggerClient,
			24*time.Hour,
			seedReloadTrigger,
		)
	} else {
		loggerClient.Info("seed file not configured, seeding disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		Gate:              gate,
		OAuth:             oauth,
		Bookmarks:         bookmarks,
		Sessions:          sessions,
		Collections:       collections,
		EntryURL:          cfg.EntryURL,
		AppURL:            cfg.AppURL,
		CookieName:        cfg.CookieName,
		CookieSecure:      cfg.CookieSecure,
		SessionTTL:        cfg.SessionTTL,
		TrustProxy:        cfg.TrustProxy,
		SeedReloadTrigger: seedReloadTrigger,
		AuthRateBurst:     cfg.AuthRateBurst,
		AuthRatePerMin:    cfg.AuthRatePerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:          cfg,
		logger:       loggerClient,
		server:       server,
		redisClient:  redisClient,
		bookmarks:    bookmarks,
		collections:  collections,
		seedReloader: seedReloader,
		evictor:      evictor,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting bookmarkd v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("bookmarkd %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start seed reloader (if enabled)
	if a.seedReloader != nil {
		if err := a.seedReloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed reloader: %w", err)
		}
		a.logger.Info("seed reloader started")
	}

	// Start collection evictor
	if err := a.evictor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start collection evictor: %w", err)
	}
	a.logger.Info("collection evictor started",
		logger.Duration("interval", a.cfg.EvictInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.seedReloader != nil {
		a.seedReloader.Stop()
	}
	a.evictor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.bookmarks.Close(); err != nil {
		a.logger.Warnf("failed to close bookmark store: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ bookmarkd stopped cleanly")
	return nil
}
