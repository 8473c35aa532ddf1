// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"
	"errors"
	"net/http"

	"github.com/haierkeys/dev-toolbox-service/internal/app"
	"github.com/haierkeys/dev-toolbox-service/internal/middleware"
	pkgapp "github.com/haierkeys/dev-toolbox-service/pkg/app"
	"github.com/haierkeys/dev-toolbox-service/pkg/code"
	apperrors "github.com/haierkeys/dev-toolbox-service/pkg/errors"
	pkglogger "github.com/haierkeys/dev-toolbox-service/pkg/logger"
	"github.com/haierkeys/dev-toolbox-service/pkg/schema"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// logError 记录错误日志，包含 Trace ID；客户端错误只记录 debug 级别
func (h *Handler) logError(ctx context.Context, method string, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String(pkglogger.FieldTraceID, middleware.GetTraceID(ctx)),
	}
	if apperrors.Resolve(err).Kind() == code.KindInternal {
		h.App.Logger().Error(method, fields...)
		return
	}
	h.App.Logger().Debug(method, fields...)
}

// bindBody reads the request body and checks it against the rules of kind.
// On failure the error envelope is already written and ok is false.
// bindBody 读取请求体并按约束表校验，失败时已写出错误响应
func (h *Handler) bindBody(c *gin.Context, kind schema.Kind) (schema.Payload, bool) {
	response := pkgapp.NewResponse(c)

	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.ToResponse(code.ErrorPayloadTooLarge)
			return nil, false
		}
		response.ToResponse(code.ErrorValidation.WithMessage("request body could not be read"))
		return nil, false
	}

	payload, err := schema.Validate(kind, body)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			response.ToResponse(code.ErrorValidation.WithMessage(verr.Message).WithField(verr.Field))
			return nil, false
		}
		h.logError(c.Request.Context(), "Handler.bindBody", err)
		apperrors.ErrorResponse(c, err)
		return nil, false
	}
	return payload, true
}

// bindQuery binds path and query parameters into params.
// On failure the first failed field is reported in the envelope.
// bindQuery 绑定路径与查询参数，失败时返回第一个出错的字段
func (h *Handler) bindQuery(c *gin.Context, method string, params any) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if valid {
		return true
	}
	h.App.Logger().Debug(method+".BindAndValid err", zap.Error(errs))

	codeObj := code.ErrorValidation
	if first := errs.First(); first != nil {
		codeObj = codeObj.WithMessage(first.Message).WithField(first.Key)
	}
	pkgapp.NewResponse(c).ToResponse(codeObj)
	return false
}
