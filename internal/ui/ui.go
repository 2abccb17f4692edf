package ui

import (
	_ "embed"
	"net/http"
	"sync"

	"github.com/Meesho/BharatMLStack/company-export/pkg/httpframework"
	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var indexHTML []byte

var initUIRouterOnce sync.Once

// Init expects http framework to be initialized before calling this function
func Init() {
	initUIRouterOnce.Do(func() {
		Register(httpframework.Instance())
	})
}

// Register serves the export form at GET /.
func Register(router gin.IRouter) {
	router.GET("/", Index)
}

func Index(ctx *gin.Context) {
	ctx.Header("Cache-Control", "no-cache")
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}
