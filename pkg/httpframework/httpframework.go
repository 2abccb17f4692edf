package httpframework

import (
	"net/http"
	"sync"

	"github.com/Meesho/BharatMLStack/company-export/internal/constant"
	"github.com/Meesho/BharatMLStack/company-export/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	router *gin.Engine
	once   sync.Once
)

// Init initializes gin engine with the given middlewares
// It sets the gin mode to release if the environment is production, tags every request with an id
// and uses the middleware logger and recovery. A /health route is always registered.
func Init(appEnv string, middlewares ...gin.HandlerFunc) {
	once.Do(func() {
		if appEnv == "prod" || appEnv == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		router = gin.New()
		all := []gin.HandlerFunc{middleware.RequestID()}
		all = append(all, middlewares...)
		all = append(all, middleware.HTTPLogger(), middleware.HTTPRecovery())
		router.Use(all...)
		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{constant.Ok: true})
		})
	})
}

// Instance returns the httpframework instance
func Instance() *gin.Engine {
	if router == nil {
		log.Fatal().Msg("Router not initialized")
	}
	return router
}
