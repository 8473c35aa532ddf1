package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
	pkgapp "github.com/haierkeys/dev-toolbox-service/pkg/app"
	"github.com/haierkeys/dev-toolbox-service/pkg/code"
)

// AppError 统一应用错误结构体
// 包含错误码对象与原始错误
type AppError struct {
	// Code 错误码
	Code *code.Code
	// Cause 原始错误（不会返回给客户端）
	Cause error
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Code.Msg() + ": " + e.Cause.Error()
	}
	return e.Code.Msg()
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is 使 errors.Is(err, code.XXX) 对包装后的错误同样生效
func (e *AppError) Is(target error) bool {
	return e.Code.Is(target)
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:  c,
		Cause: cause,
	}
}

// Resolve maps any error to the code that describes it.
// Server-side failures carry the cause as a detail.
// Resolve 将任意错误映射为错误码对象，服务端错误附带原始错误详情
func Resolve(err error) *code.Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c := appErr.Code
		if appErr.Cause != nil && !c.HaveDetails() {
			c = c.WithDetails(appErr.Cause.Error())
		}
		return c
	}

	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr
	}

	return code.ErrorServerInternal.WithDetails(err.Error())
}

// ErrorResponse 统一错误响应处理
// 将错误转换为错误信封；生产模式下 5xx 只返回通用消息
func ErrorResponse(c *gin.Context, err error) {
	codeObj := Resolve(err)

	if codeObj.Kind() == code.KindInternal && pkgapp.IsProduction(c) {
		codeObj = code.ErrorServerInternal
	}

	pkgapp.NewResponse(c).ToResponse(codeObj)
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
