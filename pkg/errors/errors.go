// Package errors 定义应用级错误类型与错误码
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code 错误码
type Code string

const (
	CodeInvalidInput   Code = "INVALID_INPUT"   // 输入参数非法
	CodeNotFound       Code = "NOT_FOUND"       // 资源不存在
	CodeAlreadyExists  Code = "ALREADY_EXISTS"  // 资源已存在
	CodeInternal       Code = "INTERNAL"        // 内部错误
	CodeUnavailable    Code = "UNAVAILABLE"     // 依赖服务不可用
	CodePlanConsumed   Code = "PLAN_CONSUMED"   // 计划生成器已被使用
	CodeImportConflict Code = "IMPORT_CONFLICT" // 数据导入冲突
)

// AppError 应用错误，携带错误码与可选底层错误
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建应用错误
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf 创建带格式化消息的应用错误
func Newf(code Code, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Is 检查错误是否为指定错误码的应用错误
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatus 返回错误码对应的 HTTP 状态码
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeImportConflict, CodePlanConsumed:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors 输入校验错误集合
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add 追加一条字段错误
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// HasErrors 检查是否存在校验错误
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}
