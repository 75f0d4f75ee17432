package galaxy

import (
	"strings"
	"testing"
	"time"
)

func TestCacheKeyOnlyForSeeded(t *testing.T) {
	p := DefaultParameters()
	if _, ok := CacheKey(p); ok {
		t.Fatal("unseeded parameters must not be cacheable")
	}

	p.Seed = seed(1)
	key, ok := CacheKey(p)
	if !ok || !strings.HasPrefix(key, cacheKeyPrefix) {
		t.Fatalf("unexpected key %q (%v)", key, ok)
	}

	other := p
	other.Seed = seed(2)
	if k, _ := CacheKey(other); k == key {
		t.Fatal("different seeds must give different keys")
	}

	resized := p
	resized.Size = 0.05
	if k, _ := CacheKey(resized); k != key {
		t.Fatal("point size does not change the cloud and must not change the key")
	}

	recolored := p
	recolored.InsideColor = MustParseColor("#ffffff")
	if k, _ := CacheKey(recolored); k == key {
		t.Fatal("colors must change the key")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(4)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	cloud := &PointCloud{}
	if err := c.Set(t.Context(), "k", cloud, time.Minute); err != nil {
		t.Fatal(err)
	}
	if got, ok, _ := c.Get(t.Context(), "k"); !ok || got != cloud {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := c.Get(t.Context(), "k"); ok {
		t.Fatal("expected miss at expiry")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be dropped, %d left", c.Len())
	}
}

func TestMemoryCacheEvictsSoonestExpiry(t *testing.T) {
	c := NewMemoryCache(2)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	_ = c.Set(t.Context(), "short", &PointCloud{}, time.Second)
	_ = c.Set(t.Context(), "long", &PointCloud{}, time.Hour)
	_ = c.Set(t.Context(), "new", &PointCloud{}, time.Hour)

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if _, ok, _ := c.Get(t.Context(), "short"); ok {
		t.Fatal("entry closest to expiry should have been evicted")
	}
	if _, ok, _ := c.Get(t.Context(), "long"); !ok {
		t.Fatal("long-lived entry should survive")
	}
}
