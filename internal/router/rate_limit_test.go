package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handlershared "github.com/whimsicalfrog/wf-admin/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func TestKeyByAdminSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/admin/ai/cost-estimate", nil)
	c.Request.RemoteAddr = "1.2.3.4:5678"

	if key := KeyByAdminSubject(c); key != "1.2.3.4" {
		t.Fatalf("anonymous key want 1.2.3.4 got %s", key)
	}

	c.Set(handlershared.ContextKeyAdminSubject, "alice")
	if key := KeyByAdminSubject(c); key != "alice|1.2.3.4" {
		t.Fatalf("key want alice|1.2.3.4 got %s", key)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status want 200 got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("expected handler response body, got %s", w.Body.String())
		}
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "uint64", input: uint64(12), want: 12, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}

func TestRateLimitRuleKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	c.Request.RemoteAddr = "9.8.7.6:1000"

	rule := RateLimitRule{Prefix: "wf:rate:admin"}
	if got := rule.key(c, KeyByIP); got != "wf:rate:admin:9.8.7.6" {
		t.Fatalf("unexpected key %s", got)
	}
	blank := func(*gin.Context) string { return "  " }
	if got := (RateLimitRule{}).key(c, blank); got != "9.8.7.6" {
		t.Fatalf("blank key should fall back to ip, got %s", got)
	}
}
