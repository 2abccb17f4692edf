package main

import (
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"

	exportConfig "github.com/Meesho/BharatMLStack/company-export/internal"
	"github.com/Meesho/BharatMLStack/company-export/internal/configs"
	exportRouter "github.com/Meesho/BharatMLStack/company-export/internal/export/router"
	"github.com/Meesho/BharatMLStack/company-export/internal/ui"
	apihttp "github.com/Meesho/BharatMLStack/company-export/pkg/api/http"
	"github.com/Meesho/BharatMLStack/company-export/pkg/httpframework"
	"github.com/Meesho/BharatMLStack/company-export/pkg/logger"
	"github.com/Meesho/BharatMLStack/company-export/pkg/metric"
	"github.com/rs/zerolog/log"
)

type AppConfig struct {
	Configs configs.Configs
}

func (cfg *AppConfig) GetStaticConfig() interface{} {
	return &cfg.Configs
}

var (
	appConfig AppConfig
)

func main() {
	configs.InitConfig(&appConfig)

	// Initialize logger first (needed for logging)
	logger.Init(appConfig.Configs)
	metric.Init(appConfig.Configs)
	exportConfig.InitAll(appConfig.Configs)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowOrigins(appConfig.Configs.CorsAllowOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", apihttp.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{
		apihttp.HeaderContentDisposition,
		apihttp.HeaderTotalRecords,
		apihttp.HeaderExportResult,
		apihttp.HeaderRequestID,
	}
	httpframework.Init(appConfig.Configs.AppEnv, cors.New(corsConfig))

	ui.Init()
	exportRouter.Init()

	port := appConfig.Configs.AppPort
	if port == 0 {
		port = 8082
		log.Warn().Int("port", port).Msg("App port not set, defaulting to 8082")
	}
	if err := httpframework.Instance().Run(":" + strconv.Itoa(port)); err != nil {
		log.Fatal().Err(err).Msg("HTTP server stopped")
	}
}

func allowOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
