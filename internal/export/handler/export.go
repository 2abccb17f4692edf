package handler

import (
	"context"
	"errors"
	"time"

	"github.com/Meesho/BharatMLStack/company-export/internal/constant"
	"github.com/Meesho/BharatMLStack/company-export/internal/externalcall"
	"github.com/Meesho/BharatMLStack/company-export/pkg/metric"
	"github.com/Meesho/BharatMLStack/company-export/pkg/workbook"
	"github.com/rs/zerolog"
)

const NoRecordsMessage = "No companies found for the given filters"

type Handler interface {
	// Export runs token fetch, paged search and workbook build for an already validated request.
	Export(ctx context.Context, req ExportRequest) Result
}

var _ Handler = (*exportHandlerImpl)(nil)

type exportHandlerImpl struct {
	client externalcall.RegistryClient
	now    func() time.Time
}

func NewHandler(client externalcall.RegistryClient, now func() time.Time) Handler {
	if now == nil {
		now = time.Now
	}
	return &exportHandlerImpl{client: client, now: now}
}

func (h *exportHandlerImpl) Export(ctx context.Context, req ExportRequest) Result {
	logger := zerolog.Ctx(ctx)
	env := externalcall.Environment(req.Environment)
	province := NormalizeProvince(req.Province)
	atecoCode := NormalizeAtecoCode(req.AtecoCode)
	filters := BuildFilters(province, atecoCode, ConvertExtraFilters(req.ExtraFilters))

	logger.Info().
		Str("environment", req.Environment).
		Str("province", province).
		Str("ateco_code", atecoCode).
		Int("page_size", req.PageSize).
		Int("start_page", req.StartPage).
		Int("max_pages", req.MaxPages).
		Msg("Starting export")

	token, err := h.client.FetchToken(ctx, externalcall.Credentials{
		Username:    req.Username,
		APIKey:      req.APIKey,
		Environment: env,
	})
	if err != nil {
		return failureFrom(ctx, err)
	}

	records, lastRaw, err := FetchAllPages(ctx, h.client, PageRequest{
		Token:       token,
		Environment: env,
		Filters:     filters,
		PageSize:    req.PageSize,
		StartPage:   req.StartPage,
		MaxPages:    req.MaxPages,
	})
	if err != nil {
		return failureFrom(ctx, err)
	}
	if len(records) == 0 {
		return Empty{Message: NoRecordsMessage, Payload: lastRaw}
	}

	content, err := workbook.Build(records, workbook.DefaultSheetName)
	if err != nil {
		return failureFrom(ctx, err)
	}
	metric.Count(metric.ExportRecordCount, int64(len(records)), metric.BuildTag(
		metric.NewTag(metric.TagRegistryEnvironment, req.Environment),
	))
	return Spreadsheet{
		Content:     content,
		Filename:    BuildFilename(province, atecoCode, h.now()),
		RecordCount: len(records),
	}
}

// failureFrom maps registry errors to an upstream failure. Anything else is internal and its
// detail stays in the log.
func failureFrom(ctx context.Context, err error) Failure {
	var upstreamErr *externalcall.UpstreamError
	if errors.As(err, &upstreamErr) {
		zerolog.Ctx(ctx).Error().Err(err).Int("upstream_status", upstreamErr.Status).Msg("Export failed upstream")
		return Failure{
			Kind:    FailureUpstream,
			Message: upstreamErr.Message,
			Details: upstreamErr.Details(),
			Status:  upstreamErr.Status,
		}
	}
	zerolog.Ctx(ctx).Error().Err(err).Msg("Export failed")
	return Failure{Kind: FailureInternal, Message: constant.InternalServerError}
}
