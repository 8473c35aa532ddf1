package api_router

import (
	"expvar"
	"net/http"

	"github.com/haierkeys/dev-toolbox-service/internal/app"
	"github.com/haierkeys/dev-toolbox-service/pkg/util"

	"github.com/gin-gonic/gin"
)

// DebugHandler private listener handlers: runtime vars and host info
// DebugHandler 私有监听地址上的运行时指标与主机信息
type DebugHandler struct {
	*Handler
}

// NewDebugHandler 创建 DebugHandler 实例
func NewDebugHandler(a *app.App) *DebugHandler {
	return &DebugHandler{Handler: NewHandler(a)}
}

// Expvar 导出 expvar 运行时指标
func (h *DebugHandler) Expvar(c *gin.Context) {
	expvar.Handler().ServeHTTP(c.Writer, c.Request)
}

// SysInfo 返回主机与进程信息
func (h *DebugHandler) SysInfo(c *gin.Context) {
	c.JSON(http.StatusOK, util.CollectSystemInfo(h.App.StartTime))
}
