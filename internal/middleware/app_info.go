package middleware

import (
	"github.com/haierkeys/dev-toolbox-service/pkg/app"

	"github.com/gin-gonic/gin"
)

// AppInfo 注入应用名称、版本与生产模式标记
func AppInfo(name, version string, production bool) gin.HandlerFunc {

	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Set(app.ProductionKey, production)

		c.Next()
	}
}
