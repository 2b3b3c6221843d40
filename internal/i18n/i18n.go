package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEnUS    = "en-US"
	LocaleZhCN    = "zh-CN"
	DefaultLocale = LocaleEnUS
)

// ResolveLocale 从请求头解析语言
// 优先 X-Locale，其次 Accept-Language 的第一个可识别语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale := normalizeLocale(c.GetHeader("X-Locale")); locale != "" {
		return locale
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale := normalizeLocale(tag); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// T 翻译消息 key，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func lookup(locale, key string) (string, bool) {
	catalog, ok := catalogs[locale]
	if !ok {
		return "", false
	}
	msg, ok := catalog[key]
	return msg, ok
}

func normalizeLocale(tag string) string {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	switch {
	case normalized == "":
		return ""
	case strings.HasPrefix(normalized, "zh"):
		return LocaleZhCN
	case strings.HasPrefix(normalized, "en"):
		return LocaleEnUS
	default:
		return ""
	}
}
