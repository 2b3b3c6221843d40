package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock 分布式锁句柄，Redis 未启用时为空锁
type Lock struct {
	key   string
	token string
}

// TryLock 以 SETNX 获取锁；Redis 未启用时总是成功
func TryLock(ctx context.Context, key string, ttl time.Duration) (*Lock, bool, error) {
	lock := &Lock{key: BuildKey("lock:" + key), token: uuid.NewString()}
	if !Enabled() {
		return lock, true, nil
	}
	ok, err := redisClient.SetNX(ctx, lock.key, lock.token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return lock, true, nil
}

// Release 释放锁（仅当仍由自己持有）
func (l *Lock) Release(ctx context.Context) error {
	if l == nil || !Enabled() {
		return nil
	}
	return releaseLockScript.Run(ctx, redisClient, []string{l.key}, l.token).Err()
}
