package router

import (
	"sync"

	"github.com/Meesho/BharatMLStack/company-export/internal/export/controller"
	"github.com/Meesho/BharatMLStack/company-export/pkg/httpframework"
)

var (
	initExportRouterOnce sync.Once
)

// Init expects http framework and the registry client to be initialized before calling this function
func Init() {
	initExportRouterOnce.Do(func() {
		exportApi := httpframework.Instance().Group("/api")
		{
			exportApi.POST("/export", controller.NewController().Export)
		}
	})
}
