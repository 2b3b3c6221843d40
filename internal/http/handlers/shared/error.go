package shared

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/i18n"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
// 5xx 记 error 级别，其余记 warn。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	appErr := response.WrapError(code, i18n.T(locale, key), err)
	if err != nil {
		log := RequestLog(c)
		if appErr.Internal() {
			log.Errorw("handler_error", appErr.LogFields()...)
		} else {
			log.Warnw("handler_error", appErr.LogFields()...)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondValidation 返回 422，data 中携带出错字段。
func RespondValidation(c *gin.Context, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, "error.validation_failed")
	data := gin.H{}
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		data["field"] = validationErr.Field
		data["reason"] = validationErr.Reason
	}
	RequestLog(c).Infow("handler_validation_failed", "error", err)
	response.ErrorWithData(c, response.CodeUnprocessable, msg, data)
}
