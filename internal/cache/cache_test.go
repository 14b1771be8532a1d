package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/invoxhq/invox/internal/cache"

	_ "github.com/mattn/go-sqlite3"
)

func TestResultKey(t *testing.T) {
	doc := []byte("invoice body")
	key := cache.ResultKey("gpt-4o-mini", doc)
	same := cache.ResultKey("gpt-4o-mini", doc)
	other := cache.ResultKey("gpt-4o", doc)

	if key != same {
		t.Errorf("ResultKey() not deterministic: %q != %q", key, same)
	}
	if key == other {
		t.Errorf("ResultKey() should differ across models")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	db, err := cache.InitializeCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("InitializeCache() error: %v", err)
	}
	defer db.Close()

	key := cache.ResultKey("gpt-4o-mini", []byte("doc"))

	if _, err := cache.CheckCache(db, key, 24); err != cache.ErrCacheMiss {
		t.Errorf("CheckCache() before store: got %v, want ErrCacheMiss", err)
	}

	if err := cache.StoreResult(db, key, []byte("### Invoice Details")); err != nil {
		t.Fatalf("StoreResult() error: %v", err)
	}

	got, err := cache.CheckCache(db, key, 24)
	if err != nil {
		t.Fatalf("CheckCache() after store: %v", err)
	}
	if string(got) != "### Invoice Details" {
		t.Errorf("CheckCache() = %q, want stored result", got)
	}

	// Unlimited caching never expires.
	if _, err := cache.CheckCache(db, key, -1); err != nil {
		t.Errorf("CheckCache() with unlimited duration: %v", err)
	}

	// Duration 0 disables caching entirely.
	got, err = cache.CheckCache(db, key, 0)
	if err != nil || got != nil {
		t.Errorf("CheckCache() with disabled caching: got %q, %v", got, err)
	}
}
