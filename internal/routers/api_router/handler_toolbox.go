package api_router

import (
	"github.com/haierkeys/dev-toolbox-service/internal/app"
	"github.com/haierkeys/dev-toolbox-service/internal/dto"
	pkgapp "github.com/haierkeys/dev-toolbox-service/pkg/app"
	"github.com/haierkeys/dev-toolbox-service/pkg/code"
	apperrors "github.com/haierkeys/dev-toolbox-service/pkg/errors"
	"github.com/haierkeys/dev-toolbox-service/pkg/schema"

	"github.com/gin-gonic/gin"
)

// ToolboxHandler JSON and Base64 tool API router handler
// ToolboxHandler JSON 与 Base64 工具 API 路由处理器
type ToolboxHandler struct {
	*Handler
}

// NewToolboxHandler 创建 ToolboxHandler 实例
func NewToolboxHandler(a *app.App) *ToolboxHandler {
	return &ToolboxHandler{Handler: NewHandler(a)}
}

// FormatJSON re-indents JSON with two spaces and records the call in the history
// FormatJSON 两空格缩进格式化 JSON，并写入历史记录
// @Router /api/format-json [post]
func (h *ToolboxHandler) FormatJSON(c *gin.Context) {
	payload, ok := h.bindBody(c, schema.JSONFormat)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	res, err := h.App.ToolboxService.FormatJSON(ctx, &dto.FormatJSONRequest{
		JSON:          payload.String("json"),
		OriginAddress: pkgapp.GetRequestIP(c),
		ClientAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		h.logError(ctx, "ToolboxHandler.FormatJSON", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessFormatJSON.WithData(res))
}

// ValidateJSON reports whether the input parses; invalid input is still a success response
// ValidateJSON 校验 JSON，无效输入同样返回成功响应
// @Router /api/validate-json [post]
func (h *ToolboxHandler) ValidateJSON(c *gin.Context) {
	payload, ok := h.bindBody(c, schema.JSONValidate)
	if !ok {
		return
	}

	res := h.App.ToolboxService.ValidateJSON(c.Request.Context(), payload.String("json"))
	if res.Valid {
		pkgapp.NewResponse(c).ToResponse(code.SuccessJSONValid.WithData(res))
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessJSONInvalid.WithData(res))
}

// Encode Base64 编码
// @Router /api/encode [post]
func (h *ToolboxHandler) Encode(c *gin.Context) {
	payload, ok := h.bindBody(c, schema.Base64Encode)
	if !ok {
		return
	}

	res := h.App.ToolboxService.Encode(c.Request.Context(), payload.String("text"))
	pkgapp.NewResponse(c).ToResponse(code.SuccessEncode.WithData(res))
}

// Decode Base64 解码
// @Router /api/decode [post]
func (h *ToolboxHandler) Decode(c *gin.Context) {
	payload, ok := h.bindBody(c, schema.Base64Decode)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	res, err := h.App.ToolboxService.Decode(ctx, payload.String("encoded"))
	if err != nil {
		h.logError(ctx, "ToolboxHandler.Decode", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessDecode.WithData(res))
}

// EncodeFile 文件编码，尚未实现
// @Router /api/encode-file [post]
func (h *ToolboxHandler) EncodeFile(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponse(code.ErrorNotImplemented)
}
