package shared

import (
	"github.com/gin-gonic/gin"
)

// ContextKeyAdminSubject 鉴权中间件写入的管理员标识
const ContextKeyAdminSubject = "admin_subject"

// AdminSubject 读取当前管理员标识，未鉴权时为空。
func AdminSubject(c *gin.Context) string {
	if c == nil {
		return ""
	}
	value, ok := c.Get(ContextKeyAdminSubject)
	if !ok {
		return ""
	}
	subject, _ := value.(string)
	return subject
}
