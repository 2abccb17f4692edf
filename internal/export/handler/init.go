package handler

import (
	"sync"
	"time"

	"github.com/Meesho/BharatMLStack/company-export/internal/externalcall"
	"github.com/rs/zerolog/log"
)

var (
	exportHandler         Handler
	initExportHandlerOnce sync.Once
)

// InitExportHandler expects the registry client to be initialized before calling this function.
func InitExportHandler() Handler {
	initExportHandlerOnce.Do(func() {
		client := externalcall.GetRegistryClient()
		if client == nil {
			log.Panic().Msg("Registry client is not initialized")
		}
		exportHandler = NewHandler(client, time.Now)
	})
	return exportHandler
}
