package scheduler

import (
	"context"
	"time"

	"github.com/smartbookmarks/bookmarkd/internal/collection"
	"github.com/smartbookmarks/bookmarkd/internal/logger"
)

const (
	// DefaultEvictThreshold is the idle duration after which a user's
	// collection is dropped from memory.
	DefaultEvictThreshold = 12 * time.Hour
)

// CollectionEvictor periodically drops per-user collections that have not
// been touched recently. Collections are caches over the record store, so
// eviction only discards local-only presentation state.
type CollectionEvictor struct {
	registry  *collection.Registry
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewCollectionEvictor creates a collection evictor.
func NewCollectionEvictor(
	registry *collection.Registry,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *CollectionEvictor {
	if threshold == 0 {
		threshold = DefaultEvictThreshold
	}

	return &CollectionEvictor{
		registry:  registry,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic eviction loop.
func (ce *CollectionEvictor) Start(ctx context.Context) error {
	ticker := time.NewTicker(ce.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ce.Sweep()
			case <-ce.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the evictor.
func (ce *CollectionEvictor) Stop() {
	close(ce.stopCh)
}

// Sweep evicts idle collections once.
func (ce *CollectionEvictor) Sweep() {
	evicted := ce.registry.EvictIdle(ce.threshold, time.Now())

	if evicted > 0 {
		ce.logger.Info("evicted idle collections",
			logger.Int("evicted", evicted),
			logger.Int("remaining", ce.registry.Count()))
	} else {
		ce.logger.Debug("no idle collections to evict")
	}
}
