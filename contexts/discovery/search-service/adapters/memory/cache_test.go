package memory

import (
	"testing"
	"time"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
)

func TestCacheExpiresEntries(t *testing.T) {
	cache := NewCache(4)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set("search:намаз:all:1:10", entities.ResultPage{Total: 2}, time.Minute)
	if page, ok := cache.Get("search:намаз:all:1:10"); !ok || page.Total != 2 {
		t.Fatalf("expected cached page, got %+v ok=%v", page, ok)
	}
	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get("search:намаз:all:1:10"); ok {
		t.Fatalf("expected entry to expire")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected expired entry dropped")
	}
}

func TestCacheEvictsWhenFull(t *testing.T) {
	cache := NewCache(2)
	cache.Set("a", entities.ResultPage{}, time.Minute)
	cache.Set("b", entities.ResultPage{}, time.Minute)
	cache.Set("c", entities.ResultPage{}, time.Minute)
	if cache.Len() > 2 {
		t.Fatalf("expected cache bounded, got %d entries", cache.Len())
	}
	if _, ok := cache.Get("c"); !ok {
		t.Fatalf("expected newest entry kept")
	}
}
