package app

import (
	"strings"

	"github.com/haierkeys/dev-toolbox-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// Context keys shared by middleware and response helpers.
// 中间件与响应辅助函数共享的上下文键
const (
	TraceIDKey    = "trace_id"
	ProductionKey = "production"
	StatusCodeKey = "status_code"
)

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

type Response struct {
	Ctx *gin.Context
}

// Res is the header every success payload embeds: Success/Message
// Res 是所有成功响应内嵌的公共头部
type Res struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SetHeader fills the shared header; promoted to every payload embedding Res.
// SetHeader 填充公共头部，内嵌 Res 的结构体自动获得该方法
func (r *Res) SetHeader(success bool, message string) {
	r.Success = success
	r.Message = message
}

// Payload is a success body carrying a Res header.
type Payload interface {
	SetHeader(success bool, message string)
}

// ErrRes is the uniform error envelope: Error/Message/Field/Details
// ErrRes 统一错误信封
type ErrRes struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetRequestIP gets the request IP
// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

// IsProduction reports whether error details must be hidden from clients.
// IsProduction 生产模式下不向客户端暴露错误详情
func IsProduction(c *gin.Context) bool {
	return c.GetBool(ProductionKey)
}

// ToResponse output to browser: success codes render their data payload, errors render ErrRes
// ToResponse 输出到浏览器：成功码输出数据载荷，错误码输出 ErrRes 信封
func (r *Response) ToResponse(codeObj *code.Code) {
	r.Ctx.Set(StatusCodeKey, codeObj.StatusCode())

	if codeObj.Status() {
		payload, ok := codeObj.Data().(Payload)
		if !ok {
			payload = &Res{}
		}
		payload.SetHeader(true, codeObj.Msg())
		r.send(codeObj.StatusCode(), payload)
		return
	}

	content := ErrRes{
		Error:   codeObj.Kind(),
		Message: codeObj.Msg(),
		Field:   codeObj.Field(),
		TraceID: r.Ctx.GetString(TraceIDKey),
	}

	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), "; ")
	}

	r.send(codeObj.StatusCode(), content)
}

func (r *Response) send(statusCode int, content interface{}) {
	r.Ctx.JSON(statusCode, content)
}
