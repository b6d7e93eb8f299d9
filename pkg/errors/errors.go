package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeFileUnreadable = "FILE_UNREADABLE"
	CodeNotFound       = "NOT_FOUND"
	CodeValidation     = "VALIDATION_ERROR"
	CodeStore          = "STORE_ERROR"
	CodeCache          = "CACHE_ERROR"
	CodeInsight        = "INSIGHT_ERROR"
)

// AppError 应用错误：业务码 + HTTP 状态 + 上下文
type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

// NewFileUnreadableError 文件无法解析为表格数据（唯一的致命错误）
func NewFileUnreadableError(fileName string, cause error) *AppError {
	return &AppError{
		Message:    "file is not readable as tabular data",
		Code:       CodeFileUnreadable,
		StatusCode: http.StatusUnprocessableEntity,
		Context:    map[string]any{"file": fileName},
		Cause:      cause,
	}
}

func NewNotFoundError(resource, id string) *AppError {
	return &AppError{
		Message:    fmt.Sprintf("%s not found", resource),
		Code:       CodeNotFound,
		StatusCode: http.StatusNotFound,
		Context:    map[string]any{"resource": resource, "id": id},
	}
}

func NewValidationError(message, field string, value any) *AppError {
	return &AppError{
		Message:    message,
		Code:       CodeValidation,
		StatusCode: http.StatusBadRequest,
		Context: map[string]any{
			"field": field,
			"value": value,
		},
	}
}

func NewStoreError(operation string, cause error) *AppError {
	return &AppError{
		Message:    "store operation failed",
		Code:       CodeStore,
		StatusCode: http.StatusInternalServerError,
		Context:    map[string]any{"operation": operation},
		Cause:      cause,
	}
}

func NewCacheError(message, operation, key string, cause error) *AppError {
	return &AppError{
		Message:    message,
		Code:       CodeCache,
		StatusCode: http.StatusInternalServerError,
		Context: map[string]any{
			"operation": operation,
			"key":       key,
		},
		Cause: cause,
	}
}

// NewInsightError 点评服务调用失败（只在服务内部流转，对外降级为占位文本）
func NewInsightError(provider string, cause error) *AppError {
	return &AppError{
		Message:    "insight provider failed",
		Code:       CodeInsight,
		StatusCode: http.StatusBadGateway,
		Context:    map[string]any{"provider": provider},
		Cause:      cause,
	}
}

// As 在错误链中查找 AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode 判断错误链中是否包含指定业务码
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
