package response

// AppError 业务码 + 对外消息 + 原始错误
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// LogFields 结构化日志字段，原始错误只进日志不进响应
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{"code", e.Code, "message", e.Message}
	if e.Err != nil {
		fields = append(fields, "error", e.Err)
	}
	return fields
}

// Internal 500 以上视为服务端错误
func (e *AppError) Internal() bool {
	return e.Code >= CodeInternal
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
