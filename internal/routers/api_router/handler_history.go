package api_router

import (
	"github.com/haierkeys/dev-toolbox-service/internal/app"
	"github.com/haierkeys/dev-toolbox-service/internal/dto"
	pkgapp "github.com/haierkeys/dev-toolbox-service/pkg/app"
	"github.com/haierkeys/dev-toolbox-service/pkg/code"
	apperrors "github.com/haierkeys/dev-toolbox-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// HistoryHandler JSON format history API router handler
// HistoryHandler JSON 格式化历史 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type HistoryHandler struct {
	*Handler
}

// NewHistoryHandler 创建 HistoryHandler 实例
func NewHistoryHandler(a *app.App) *HistoryHandler {
	return &HistoryHandler{Handler: NewHandler(a)}
}

// List 分页获取历史记录
// @Param params query dto.HistoryListRequest true "查询参数"
// @Router /api/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	params := &dto.HistoryListRequest{}
	if !h.bindQuery(c, "HistoryHandler.List", params) {
		return
	}

	ctx := c.Request.Context()
	list, pager, err := h.App.HistoryService.List(ctx, params)
	if err != nil {
		h.logError(ctx, "HistoryHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessHistoryList.WithData(&dto.HistoryListResponse{
		History:    list,
		Pagination: pager,
	}))
}

// Stats 获取统计信息
// @Router /api/history/stats [get]
func (h *HistoryHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.App.HistoryService.Stats(ctx)
	if err != nil {
		h.logError(ctx, "HistoryHandler.Stats", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessHistoryStats.WithData(&dto.HistoryStatsResponse{Stats: *stats}))
}

// Cleanup 删除超过保留时长的记录
// @Router /api/history/cleanup [delete]
func (h *HistoryHandler) Cleanup(c *gin.Context) {
	ctx := c.Request.Context()
	deleted, err := h.App.HistoryService.Cleanup(ctx)
	if err != nil {
		h.logError(ctx, "HistoryHandler.Cleanup", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessHistoryCleanup.WithData(&dto.HistoryCleanupResponse{DeletedCount: deleted}))
}

// Get 获取单条历史记录
// @Router /api/history/{id} [get]
func (h *HistoryHandler) Get(c *gin.Context) {
	params := &dto.HistoryIDRequest{}
	if !h.bindQuery(c, "HistoryHandler.Get", params) {
		return
	}

	ctx := c.Request.Context()
	record, err := h.App.HistoryService.Get(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "HistoryHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessHistoryGet.WithData(&dto.HistoryRecordResponse{Record: record}))
}

// Delete 删除单条历史记录
// @Router /api/history/{id} [delete]
func (h *HistoryHandler) Delete(c *gin.Context) {
	params := &dto.HistoryIDRequest{}
	if !h.bindQuery(c, "HistoryHandler.Delete", params) {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.HistoryService.Delete(ctx, params.ID); err != nil {
		h.logError(ctx, "HistoryHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessHistoryDelete)
}
