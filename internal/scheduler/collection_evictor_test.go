package scheduler

import (
	"testing"
	"time"

	"github.com/smartbookmarks/bookmarkd/internal/collection"
	"github.com/smartbookmarks/bookmarkd/internal/domain"
	"github.com/smartbookmarks/bookmarkd/internal/logger"
)

func TestCollectionEvictorSweep(t *testing.T) {
	registry := collection.NewRegistry()
	c := registry.Get("user-1")
	c.Replace([]domain.Bookmark{{ID: 1, OwnerID: "user-1", Title: "Docs", URL: "https://docs.rs"}})

	// Threshold of 0 falls back to the default, so nothing recent is evicted.
	ce := NewCollectionEvictor(registry, logger.New("error", false), time.Hour, 0)
	ce.Sweep()

	if registry.Count() != 1 {
		t.Errorf("Sweep() evicted a fresh collection, registry count = %d, want 1", registry.Count())
	}
}

func TestCollectionEvictorDefaultThreshold(t *testing.T) {
	ce := NewCollectionEvictor(collection.NewRegistry(), logger.New("error", false), time.Hour, 0)
	if ce.threshold != DefaultEvictThreshold {
		t.Errorf("threshold = %v, want default %v", ce.threshold, DefaultEvictThreshold)
	}
}
