package cache

import (
	"context"
	"testing"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/config"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}

	ctx := context.Background()
	if err := SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("set should be noop, got %v", err)
	}
	var dest map[string]int
	hit, err := GetJSON(ctx, "k", &dest)
	if err != nil || hit {
		t.Fatalf("get should miss without error, hit=%v err=%v", hit, err)
	}
	if err := Del(ctx, "k"); err != nil {
		t.Fatalf("del should be noop, got %v", err)
	}
	if err := DelPattern(ctx, BusinessSettingsPattern()); err != nil {
		t.Fatalf("del pattern should be noop, got %v", err)
	}
}

func TestTryLockWithoutRedisAlwaysSucceeds(t *testing.T) {
	_ = InitRedis(nil)
	lock, ok, err := TryLock(context.Background(), "job", time.Minute)
	if err != nil || !ok || lock == nil {
		t.Fatalf("lock should succeed without redis, ok=%v err=%v", ok, err)
	}
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release failed: %v", err)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	if got := BuildKey(BusinessSettingsKey("ai")); got != redisPrefix+":settings:business:ai" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := BuildKey("  "); got != redisPrefix {
		t.Fatalf("empty key should equal prefix, got %s", got)
	}
}
