package router

import (
	"crypto/subtle"
	"strconv"
	"strings"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/config"
	handlershared "github.com/whimsicalfrog/wf-admin/internal/http/handlers/shared"
	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/i18n"
	"github.com/whimsicalfrog/wf-admin/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// AdminRole 管理端 JWT 要求的角色
const AdminRole = "admin"

// staticTokenSubject 使用静态令牌时记录的管理员标识
const staticTokenSubject = "api_token"

// AdminClaims 管理端 JWT 载荷
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-Request-ID",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
// 健康检查与指标抓取不记录；5xx 与 gin 错误以 error 级别输出
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health" || path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if subject := handlershared.AdminSubject(c); subject != "" {
			fields = append(fields, "admin", subject)
		}
		if len(c.Errors) > 0 || status >= 500 {
			sugar.Errorw("request", append(fields, "errors", c.Errors.String())...)
			return
		}
		sugar.Infow("request", fields...)
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// AdminAuthMiddleware 管理端鉴权
// 接受静态 API 令牌或 role=admin 的 HS256 JWT；缺失或无效返回 401，角色不符返回 403
func AdminAuthMiddleware(cfg config.AdminConfig) gin.HandlerFunc {
	apiToken := strings.TrimSpace(cfg.APIToken)
	secretKey := strings.TrimSpace(cfg.JWTSecret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		if apiToken == "" && secretKey == "" {
			logger.Errorw("admin_auth_not_configured")
			abortUnauthorized(c, "error.auth_not_configured")
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "error.auth_header_missing")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "error.auth_header_invalid")
			return
		}
		tokenString := strings.TrimSpace(parts[1])

		if apiToken != "" && subtle.ConstantTimeCompare([]byte(tokenString), []byte(apiToken)) == 1 {
			c.Set(handlershared.ContextKeyAdminSubject, staticTokenSubject)
			c.Next()
			return
		}
		if secretKey == "" {
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		claims := &AdminClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		if claims.Role != AdminRole {
			logger.Warnw("admin_auth_role_denied",
				"subject", claims.Subject,
				"role", claims.Role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Forbidden(c, msg)
			c.Abort()
			return
		}

		subject := strings.TrimSpace(claims.Subject)
		if subject == "" {
			subject = AdminRole
		}
		c.Set(handlershared.ContextKeyAdminSubject, subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, key string) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	response.Unauthorized(c, msg)
	c.Abort()
}
