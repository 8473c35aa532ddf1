package middleware

import (
	"fmt"

	"github.com/haierkeys/dev-toolbox-service/pkg/app"
	"github.com/haierkeys/dev-toolbox-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 404 handler
// NoFound 404 处理
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)
		response.ToResponse(code.ErrorNotFoundAPI.WithMessage(fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path)))
		c.Abort()
	}
}
