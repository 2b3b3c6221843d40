package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/config"
	handlershared "github.com/whimsicalfrog/wf-admin/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

const testJWTSecret = "test-secret"

func signAdminToken(t *testing.T, secret, role, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := AdminClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}

func TestAdminAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.AdminConfig{APIToken: "static-token", JWTSecret: testJWTSecret}
	cases := []struct {
		name        string
		cfg         config.AdminConfig
		header      string
		wantCode    int
		wantSubject string
	}{
		{name: "not configured", cfg: config.AdminConfig{}, header: "Bearer anything", wantCode: 401},
		{name: "missing header", cfg: cfg, header: "", wantCode: 401},
		{name: "wrong scheme", cfg: cfg, header: "Basic abc", wantCode: 401},
		{name: "static token", cfg: cfg, header: "Bearer static-token", wantCode: 0, wantSubject: staticTokenSubject},
		{name: "admin jwt", cfg: cfg, header: "Bearer " + signAdminToken(t, testJWTSecret, AdminRole, "alice", time.Hour), wantCode: 0, wantSubject: "alice"},
		{name: "admin jwt without subject", cfg: cfg, header: "Bearer " + signAdminToken(t, testJWTSecret, AdminRole, "", time.Hour), wantCode: 0, wantSubject: AdminRole},
		{name: "other role", cfg: cfg, header: "Bearer " + signAdminToken(t, testJWTSecret, "editor", "bob", time.Hour), wantCode: 403},
		{name: "wrong secret", cfg: cfg, header: "Bearer " + signAdminToken(t, "other-secret", AdminRole, "eve", time.Hour), wantCode: 401},
		{name: "expired", cfg: cfg, header: "Bearer " + signAdminToken(t, testJWTSecret, AdminRole, "alice", -time.Minute), wantCode: 401},
		{name: "static token only", cfg: config.AdminConfig{APIToken: "static-token"}, header: "Bearer not-the-token", wantCode: 401},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(AdminAuthMiddleware(tc.cfg))
			r.GET("/admin/ping", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status_code": 0, "subject": handlershared.AdminSubject(c)})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("http status want 200 got %d", w.Code)
			}
			var resp struct {
				StatusCode int    `json:"status_code"`
				Subject    string `json:"subject"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response failed: %v", err)
			}
			if resp.StatusCode != tc.wantCode {
				t.Fatalf("status_code want %d got %d (%s)", tc.wantCode, resp.StatusCode, w.Body.String())
			}
			if resp.Subject != tc.wantSubject {
				t.Fatalf("subject want %q got %q", tc.wantSubject, resp.Subject)
			}
		})
	}
}

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(zap.New(core)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/admin/items/:sku", func(c *gin.Context) {
		c.Set(handlershared.ContextKeyAdminSubject, "alice")
		c.Status(http.StatusOK)
	})
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/health", "/api/v1/admin/items/WF-TS-001", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 request logs, got %d", len(entries))
	}
	first := entries[0].ContextMap()
	if first["route"] != "/api/v1/admin/items/:sku" || first["admin"] != "alice" {
		t.Fatalf("unexpected fields: %v", first)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("5xx should log at error level, got %s", entries[1].Level)
	}
}
