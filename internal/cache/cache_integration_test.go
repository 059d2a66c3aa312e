//go:build integration

package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/modelgate/modelgate/internal/model"
	"github.com/modelgate/modelgate/internal/testutil"
)

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	return ctx, c
}

func TestIntegrationCatalogCache_Roundtrip(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	key := "test:" + uuid.New().String()
	want := []*model.Provider{
		{ID: 1, Name: "OpenAI", Website: "https://openai.com"},
		{ID: 2, Name: "Anthropic", Website: "https://anthropic.com"},
	}

	if err := c.SetCatalog(ctx, key, want); err != nil {
		t.Fatalf("SetCatalog failed: %v", err)
	}

	var got []*model.Provider
	hit, err := c.GetCatalog(ctx, key, &got)
	if err != nil {
		t.Fatalf("GetCatalog failed: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 || got[0].Name != "OpenAI" {
		t.Errorf("unexpected cached value: %+v", got)
	}
}

func TestIntegrationCatalogCache_Miss(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	var got []*model.Provider
	hit, err := c.GetCatalog(ctx, "test:missing:"+uuid.New().String(), &got)
	if err != nil {
		t.Fatalf("GetCatalog failed: %v", err)
	}
	if hit {
		t.Error("expected cache miss for absent key")
	}
}

func TestIntegrationAuthRateLimit_BurstThenRefuse(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	clientKey := "test-client-" + uuid.New().String()
	const burst = 3

	for i := 0; i < burst; i++ {
		result, err := c.CheckAuthRateLimit(ctx, clientKey, 1, burst)
		if err != nil {
			t.Fatalf("CheckAuthRateLimit failed: %v", err)
		}
		if !result.Allowed {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}

	result, err := c.CheckAuthRateLimit(ctx, clientKey, 1, burst)
	if err != nil {
		t.Fatalf("CheckAuthRateLimit failed: %v", err)
	}
	if result.Allowed {
		t.Error("request beyond burst should be refused")
	}
	if result.RetryAfter <= 0 {
		t.Error("refused request should carry a retry hint")
	}
}

func TestIntegrationAuthRateLimit_ClientsIsolated(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	exhausted := "test-client-" + uuid.New().String()
	fresh := "test-client-" + uuid.New().String()

	for i := 0; i < 2; i++ {
		if _, err := c.CheckAuthRateLimit(ctx, exhausted, 1, 1); err != nil {
			t.Fatalf("CheckAuthRateLimit failed: %v", err)
		}
	}

	result, err := c.CheckAuthRateLimit(ctx, fresh, 1, 1)
	if err != nil {
		t.Fatalf("CheckAuthRateLimit failed: %v", err)
	}
	if !result.Allowed {
		t.Error("one client's exhaustion must not affect another")
	}
}
