package middleware

import (
	"net/http"

	"github.com/Meesho/BharatMLStack/company-export/internal/constant"
	apihttp "github.com/Meesho/BharatMLStack/company-export/pkg/api/http"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPRecovery turns a panic in a handler into a generic 500 response.
// The panic value is logged, never returned to the caller.
func HTTPRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				zerolog.Ctx(c.Request.Context()).Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Str("method", c.Request.Method).
					Msg("recovered from panic in http handler")
				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.Header(apihttp.HeaderExportResult, "failure")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					constant.Ok:    false,
					constant.Error: constant.InternalServerError,
				})
			}
		}()
		c.Next()
	}
}
