package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/whimsicalfrog/wf-admin/internal/http/handlers/shared"
	"github.com/whimsicalfrog/wf-admin/internal/http/response"

	"github.com/gin-gonic/gin"
)

func adminSubject(c *gin.Context) string {
	return handlershared.AdminSubject(c)
}

func parsePage(c *gin.Context) (int, int) {
	return handlershared.ParsePagination(c)
}

func pagination(page, pageSize int, total int64) response.Pagination {
	return response.NewPagination(page, pageSize, total)
}

func parsePathUint(c *gin.Context, key string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(key))
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}

func parseQueryBool(c *gin.Context, key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && value
}
