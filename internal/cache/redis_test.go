package cache

import (
	"context"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	ctx := context.Background()

	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	var dest map[string]int
	hit, err := GetJSON(ctx, "catalog:q", &dest)
	if err != nil || hit {
		t.Fatalf("disabled get want miss, got hit=%v err=%v", hit, err)
	}
	if err := SetJSON(ctx, "catalog:q", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("disabled set should be noop: %v", err)
	}
	if n, err := DelByPrefix(ctx, "catalog:"); err != nil || n != 0 {
		t.Fatalf("disabled delete want 0,nil got %d,%v", n, err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("disabled ping should succeed: %v", err)
	}
}

func TestBuildKey(t *testing.T) {
	redisPrefix = "sf"
	if got := buildKey("catalog:q:p=1"); got != "sf:catalog:q:p=1" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := buildKey("  "); got != "sf" {
		t.Fatalf("empty key should map to prefix, got %s", got)
	}
}
