package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Meesho/BharatMLStack/company-export/internal/externalcall"
	"github.com/Meesho/BharatMLStack/company-export/pkg/workbook"
	"github.com/rs/zerolog"
)

type PageRequest struct {
	Token       string
	Environment externalcall.Environment
	Filters     map[string]string
	PageSize    int
	StartPage   int
	MaxPages    int
}

// FetchAllPages requests pages StartPage..StartPage+MaxPages-1 one after the other and
// concatenates their records in arrival order. It stops at the first empty page. Any failed
// page discards what was collected so far. The returned raw payload is the last page received.
func FetchAllPages(ctx context.Context, client externalcall.RegistryClient, req PageRequest) ([]workbook.Record, json.RawMessage, error) {
	var (
		records []workbook.Record
		lastRaw json.RawMessage
	)
	logger := zerolog.Ctx(ctx)
	for i := 0; i < req.MaxPages; i++ {
		page := req.StartPage + i
		result, err := client.SearchPage(ctx, externalcall.SearchQuery{
			Token:       req.Token,
			Environment: req.Environment,
			Filters:     req.Filters,
			Page:        page,
			PageSize:    req.PageSize,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("fetching page %d: %w", page, err)
		}
		lastRaw = result.Raw
		if len(result.Records) == 0 {
			logger.Debug().Int("page", page).Msg("Registry returned an empty page, stopping")
			break
		}
		records = append(records, result.Records...)
	}
	logger.Info().Int("records", len(records)).Msg("Registry search completed")
	return records, lastRaw, nil
}
