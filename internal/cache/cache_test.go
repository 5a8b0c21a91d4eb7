// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "page:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	// Verify connection.
	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestPageCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	// Miss.
	data, ok := pc.Get(ctx, "test-page")
	if ok {
		t.Error("expected cache miss")
	}
	if data != nil {
		t.Error("expected nil data on miss")
	}

	// Set.
	html := []byte("<html><body>Test Page</body></html>")
	pc.Set(ctx, "test-page", html)

	// Hit.
	data, ok = pc.Get(ctx, "test-page")
	if !ok {
		t.Error("expected cache hit")
	}
	if string(data) != string(html) {
		t.Errorf("data mismatch: got %q, want %q", data, html)
	}
}

func TestPageCacheInvalidatePage(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	pc.Set(ctx, "invalidate-me", []byte("cached"))

	// Verify it's cached.
	_, ok := pc.Get(ctx, "invalidate-me")
	if !ok {
		t.Fatal("expected cache hit before invalidation")
	}

	// Invalidate.
	pc.InvalidatePage(ctx, "invalidate-me")

	// Verify it's gone.
	_, ok = pc.Get(ctx, "invalidate-me")
	if ok {
		t.Error("expected cache miss after invalidation")
	}
}

func TestPageCacheInvalidateHomepage(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	pc.Set(ctx, HomepageKey(), []byte("homepage"))

	pc.InvalidateHomepage(ctx)

	_, ok := pc.Get(ctx, HomepageKey())
	if ok {
		t.Error("expected homepage cache miss after invalidation")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	// Set multiple pages.
	pc.Set(ctx, "page-a", []byte("a"))
	pc.Set(ctx, "page-b", []byte("b"))
	pc.Set(ctx, "page-c", []byte("c"))

	// Invalidate all.
	pc.InvalidateAll(ctx)

	// All should be gone.
	for _, key := range []string{"page-a", "page-b", "page-c"} {
		_, ok := pc.Get(ctx, key)
		if ok {
			t.Errorf("expected miss for %q after InvalidateAll", key)
		}
	}
}

func TestPageCacheInvalidateAllCoversEveryKeyFamily(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	// Post mutations clear the cache wholesale, so a single
	// InvalidateAll must reach every kind of cached page.
	keys := []string{
		HomepageKey(),
		BlogIndexKey(1),
		PostKey("old-slug"),
		PostKey("new-slug"),
		SeriesKey("learning-go"),
	}
	for _, key := range keys {
		pc.Set(ctx, key, []byte("cached"))
	}

	pc.InvalidateAll(ctx)

	for _, key := range keys {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after InvalidateAll", key)
		}
	}
}

func TestHomepageKey(t *testing.T) {
	if HomepageKey() != "_homepage" {
		t.Errorf("HomepageKey: got %q, want %q", HomepageKey(), "_homepage")
	}
}

func TestPageKeys(t *testing.T) {
	if PostKey("go-generics") != "blog:post:go-generics" {
		t.Errorf("PostKey: got %q", PostKey("go-generics"))
	}
	if BlogIndexKey(2) != "blog:index:2" {
		t.Errorf("BlogIndexKey: got %q", BlogIndexKey(2))
	}
	if SeriesKey("learning-go") != "series:learning-go" {
		t.Errorf("SeriesKey: got %q", SeriesKey("learning-go"))
	}
}

func TestNewPageCacheDefaultTTL(t *testing.T) {
	client := testValkeyClient(t)

	// TTL = 0 should use default.
	pc := NewPageCache(client, 0)
	if pc.ttl != DefaultPageTTL {
		t.Errorf("expected DefaultPageTTL (%v), got %v", DefaultPageTTL, pc.ttl)
	}
}
