package routers

import (
	"github.com/haierkeys/dev-toolbox-service/internal/app"
	"github.com/haierkeys/dev-toolbox-service/internal/middleware"
	"github.com/haierkeys/dev-toolbox-service/internal/routers/api_router"
	"github.com/haierkeys/dev-toolbox-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/opentracing/opentracing-go"
)

// NewRouter builds the public API engine.
// NewRouter 创建对外 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()
	logger := appContainer.Logger()

	r := gin.New()
	r.HandleMethodNotAllowed = false

	r.Use(middleware.RecoveryWithLogger(logger))
	r.Use(middleware.TraceMiddleware(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
	r.Use(middleware.Tracing(opentracing.GlobalTracer()))
	r.Use(middleware.AccessLogWithLogger(logger))
	r.Use(middleware.AppInfo(app.Name, appContainer.Version().Version, appContainer.IsProductionMode()))
	r.Use(middleware.Metrics(appContainer.Registry))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.Cors())

	api := r.Group("/api")
	{
		if cfg.RateLimit.Enabled {
			api.Use(middleware.RateLimiter(limiter.NewIPLimiter(limiter.BucketRule{
				Capacity: cfg.RateLimit.Capacity,
				Window:   cfg.GetRateLimitWindow(),
			})))
		}
		api.Use(middleware.BodyLimit(cfg.GetMaxBodySize()))
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
		api.Use(middleware.LangWithTranslator(uni))

		// 创建 Handlers（注入 App Container）
		toolboxHandler := api_router.NewToolboxHandler(appContainer)
		historyHandler := api_router.NewHistoryHandler(appContainer)

		api.POST("/format-json", toolboxHandler.FormatJSON)
		api.POST("/validate-json", toolboxHandler.ValidateJSON)
		api.POST("/encode", toolboxHandler.Encode)
		api.POST("/decode", toolboxHandler.Decode)
		api.POST("/encode-file", toolboxHandler.EncodeFile)

		api.GET("/history", historyHandler.List)
		api.GET("/history/stats", historyHandler.Stats)
		api.DELETE("/history/cleanup", historyHandler.Cleanup)
		api.GET("/history/:id", historyHandler.Get)
		api.DELETE("/history/:id", historyHandler.Delete)
	}

	r.GET("/health", api_router.NewHealthHandler(appContainer).Check)

	r.NoRoute(middleware.NoFound())

	return r
}
