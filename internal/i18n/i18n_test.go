package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{name: "default", header: nil, want: LocaleEnUS},
		{name: "x-locale wins", header: map[string]string{"X-Locale": "zh-CN", "Accept-Language": "en"}, want: LocaleZhCN},
		{name: "accept-language", header: map[string]string{"Accept-Language": "fr;q=0.9, zh-TW;q=0.8"}, want: LocaleZhCN},
		{name: "unknown", header: map[string]string{"Accept-Language": "de"}, want: LocaleEnUS},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.header {
				c.Request.Header.Set(k, v)
			}
			if got := ResolveLocale(c); got != tc.want {
				t.Fatalf("locale want %s got %s", tc.want, got)
			}
		})
	}
}

func TestTFallback(t *testing.T) {
	if got := T(LocaleZhCN, "error.order_not_found"); got != "订单不存在" {
		t.Fatalf("unexpected zh message: %s", got)
	}
	if got := T("fr-FR", "error.order_not_found"); got != "Order not found" {
		t.Fatalf("unknown locale should fall back to en-US, got %s", got)
	}
	if got := T(LocaleEnUS, "error.nope"); got != "error.nope" {
		t.Fatalf("missing key should echo key, got %s", got)
	}
	if got := Sprintf(LocaleEnUS, "error.rate_limited", 3); got != "Too many requests, retry in 3 seconds" {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalogs[LocaleEnUS] {
		if _, ok := catalogs[LocaleZhCN][key]; !ok {
			t.Fatalf("zh-CN catalog missing key %s", key)
		}
	}
}
