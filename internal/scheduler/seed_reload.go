package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/smartbookmarks/bookmarkd/internal/logger"
	"github.com/smartbookmarks/bookmarkd/internal/sources/seedfile"
	"github.com/smartbookmarks/bookmarkd/internal/store"
)

// SeedReloader imports bookmarks from the seed file into the record store,
// once at startup, periodically, and on manual trigger. Entries whose URL an
// owner already has are skipped, so reloading is idempotent.
type SeedReloader struct {
	loader        *seedfile.Loader
	bookmarks     store.BookmarkStore
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSeedReloader creates a seed reloader for the given seed file.
func NewSeedReloader(
	seedFile string,
	bookmarks store.BookmarkStore,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SeedReloader {
	return &SeedReloader{
		loader:        seedfile.NewLoader(seedFile),
		bookmarks:     bookmarks,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs an initial import and begins the periodic reload loop.
func (sr *SeedReloader) Start(ctx context.Context) error {
	if err := sr.Reload(ctx); err != nil {
		return fmt.Errorf("initial seed import failed: %w", err)
	}

	ticker := time.NewTicker(sr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload seed file",
						logger.Error(err))
				}
			case <-sr.manualTrigger:
				sr.logger.Info("manual seed reload triggered")
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload seed file",
						logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the periodic reload loop.
func (sr *SeedReloader) Stop() {
	close(sr.stopCh)
}

// Reload loads the seed file and inserts every entry the owner is missing.
func (sr *SeedReloader) Reload(ctx context.Context) error {
	config, err := sr.loader.Load()
	if err != nil {
		return err
	}

	imported := 0
	skipped := 0

	for _, owner := range config {
		existing, err := sr.bookmarks.ListByOwner(ctx, owner.Owner)
		if err != nil {
			return fmt.Errorf("failed to list bookmarks for seed owner: %w", err)
		}

		known := make(map[string]struct{}, len(existing))
		for _, b := range existing {
			known[b.URL] = struct{}{}
		}

		for _, entry := range owner.Bookmarks {
			if _, ok := known[entry.URL]; ok {
				skipped++
				continue
			}
			if err := sr.bookmarks.Insert(ctx, entry.Title, entry.URL, owner.Owner); err != nil {
				return fmt.Errorf("failed to insert seed bookmark %q: %w", entry.URL, err)
			}
			known[entry.URL] = struct{}{}
			imported++
		}
	}

	if imported > 0 {
		sr.logger.Info("seed import completed",
			logger.Int("imported", imported),
			logger.Int("skipped", skipped))
	} else {
		sr.logger.Debug("seed file contained nothing new",
			logger.Int("skipped", skipped))
	}

	return nil
}
