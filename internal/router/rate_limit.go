package router

import (
	"fmt"
	"strconv"
	"strings"

	handlershared "github.com/whimsicalfrog/wf-admin/internal/http/handlers/shared"
	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/i18n"
	"github.com/whimsicalfrog/wf-admin/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware Redis 固定窗口限流
// Redis 未启用或规则未配置时直接放行；响应头携带额度信息，超限时附带 Retry-After
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	msgKey := strings.TrimSpace(rule.MessageKey)
	if msgKey == "" {
		msgKey = "error.rate_limited"
	}
	limit := strconv.Itoa(rule.MaxRequests)

	return func(c *gin.Context) {
		key := rule.key(c, keyFunc)
		count, ttlSeconds, err := incrementWindow(c, client, key, rule.WindowSeconds)
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "key", key, "error", err)
			msg := i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable")
			response.Error(c, response.CodeInternal, msg)
			c.Abort()
			return
		}

		remaining := int64(rule.MaxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}

		waitSeconds := int(ttlSeconds)
		if waitSeconds < 1 {
			waitSeconds = rule.WindowSeconds
		}
		c.Header("Retry-After", strconv.Itoa(waitSeconds))
		logger.Infow("rate_limited", "key", key, "count", count, "retry_after", waitSeconds)
		msg := i18n.Sprintf(i18n.ResolveLocale(c), msgKey, waitSeconds)
		response.Error(c, response.CodeTooManyRequests, msg)
		c.Abort()
	}
}

// key 生成带前缀的限流 key，取不到时退回客户端 IP
func (r RateLimitRule) key(c *gin.Context, keyFunc RateLimitKeyFunc) string {
	key := ""
	if keyFunc != nil {
		key = strings.TrimSpace(keyFunc(c))
	}
	if key == "" {
		key = c.ClientIP()
	}
	if r.Prefix == "" {
		return key
	}
	return r.Prefix + ":" + key
}

func incrementWindow(c *gin.Context, client *redis.Client, key string, windowSeconds int) (int64, int64, error) {
	result, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, windowSeconds).Result()
	if err != nil {
		return 0, 0, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit result %T", result)
	}
	count, ok := toInt64(values[0])
	if !ok {
		return 0, 0, fmt.Errorf("unexpected rate limit counter %T", values[0])
	}
	ttl, _ := toInt64(values[1])
	return count, ttl, nil
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByAdminSubject 使用管理员标识作为限流 key，未鉴权时退回 IP
func KeyByAdminSubject(c *gin.Context) string {
	subject := handlershared.AdminSubject(c)
	if subject == "" {
		return c.ClientIP()
	}
	return fmt.Sprintf("%s|%s", subject, c.ClientIP())
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
