package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/Meesho/BharatMLStack/company-export/internal/constant"
	"github.com/Meesho/BharatMLStack/company-export/internal/export/handler"
	apihttp "github.com/Meesho/BharatMLStack/company-export/pkg/api/http"
	"github.com/Meesho/BharatMLStack/company-export/pkg/metric"
	"github.com/Meesho/BharatMLStack/company-export/pkg/workbook"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Controller interface {
	Export(ctx *gin.Context)
}

var (
	exportController         Controller
	initExportControllerOnce sync.Once
)

type V1 struct {
	handler handler.Handler
}

// NewController expects the export handler dependencies to be initialized before calling this function.
func NewController() Controller {
	initExportControllerOnce.Do(func() {
		exportController = New(handler.InitExportHandler())
	})
	return exportController
}

func New(exportHandler handler.Handler) Controller {
	handler.RegisterValidations()
	return &V1{handler: exportHandler}
}

func (c *V1) Export(ctx *gin.Context) {
	req := handler.NewExportRequest()
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fields := handler.FieldErrors(err)
		zerolog.Ctx(ctx.Request.Context()).Warn().Interface("fields", fields).Msg("Rejected export request")
		render(ctx, handler.Failure{
			Kind:        handler.FailureValidation,
			Message:     "invalid export request",
			FieldErrors: fields,
		})
		return
	}
	req.Province = handler.NormalizeProvince(req.Province)
	render(ctx, c.handler.Export(ctx.Request.Context(), req))
}

func render(ctx *gin.Context, result handler.Result) {
	ctx.Header(apihttp.HeaderExportResult, result.Tag())
	metric.Incr(metric.ExportResultCount, metric.BuildTag(metric.NewTag(metric.TagExportResult, result.Tag())))

	switch r := result.(type) {
	case handler.Spreadsheet:
		ctx.Header(apihttp.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", r.Filename))
		ctx.Header(apihttp.HeaderContentLength, strconv.Itoa(len(r.Content)))
		ctx.Header(apihttp.HeaderTotalRecords, strconv.Itoa(r.RecordCount))
		ctx.Data(http.StatusOK, workbook.ContentType, r.Content)
	case handler.Empty:
		ctx.JSON(http.StatusOK, gin.H{
			constant.Ok:      true,
			constant.Message: r.Message,
			constant.Payload: r.Payload,
		})
	case handler.Failure:
		renderFailure(ctx, r)
	default:
		ctx.Header(apihttp.HeaderExportResult, handler.ResultTagFailure)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			constant.Ok:    false,
			constant.Error: constant.InternalServerError,
		})
	}
}

func renderFailure(ctx *gin.Context, failure handler.Failure) {
	switch failure.Kind {
	case handler.FailureValidation:
		ctx.JSON(http.StatusBadRequest, gin.H{
			constant.Ok:    false,
			constant.Error: failure.FieldErrors,
		})
	case handler.FailureUpstream:
		body := gin.H{
			constant.Ok:     false,
			constant.Error:  failure.Message,
			constant.Status: failure.UpstreamStatus(),
		}
		if failure.Details != "" {
			body[constant.Details] = failure.Details
		}
		ctx.JSON(failure.HTTPStatus(), body)
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{
			constant.Ok:    false,
			constant.Error: constant.InternalServerError,
		})
	}
}
