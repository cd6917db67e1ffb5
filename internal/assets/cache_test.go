package assets

import (
	"context"
	"errors"
	"testing"
)

func TestCacheServesRepeatedLookups(t *testing.T) {
	cache := NewCache(NewResolver(docsFS()))
	ctx := context.Background()

	first, err := cache.Resolve(ctx, "english", "intro", "01_intro.md")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := cache.Resolve(ctx, "English", "intro", "01_intro.md")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached asset to be reused")
	}
	stats := cache.Stats()
	if stats.Entries != 1 || stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestCacheDoesNotStoreMisses(t *testing.T) {
	cache := NewCache(NewResolver(docsFS()))
	ctx := context.Background()
	for range 2 {
		if _, err := cache.Resolve(ctx, "english", "intro", "missing.md"); !errors.Is(err, ErrAssetNotFound) {
			t.Fatalf("expected ErrAssetNotFound, got %v", err)
		}
	}
	if stats := cache.Stats(); stats.Entries != 0 || stats.Misses != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache(NewResolver(docsFS()))
	ctx := context.Background()
	for _, lang := range []string{"english", "spanish"} {
		if _, err := cache.Resolve(ctx, lang, "intro", "01_intro.md"); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
	}

	if dropped := cache.Invalidate("english/intro/01_intro.md"); dropped != 1 {
		t.Fatalf("expected one entry dropped, got %d", dropped)
	}
	if dropped := cache.Invalidate("spanish/"); dropped != 1 {
		t.Fatalf("expected directory invalidation to drop one entry, got %d", dropped)
	}
	if cache.Stats().Entries != 0 {
		t.Fatalf("expected empty cache")
	}

	_, _ = cache.Resolve(ctx, "english", "intro", "01_intro.md")
	cache.Purge()
	if cache.Stats().Entries != 0 {
		t.Fatalf("expected purge to empty the cache")
	}
}
