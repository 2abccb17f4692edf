package http

const (
	HeaderRequestID          = "X-Request-Id"
	HeaderTotalRecords       = "X-Total-Records"
	HeaderExportResult       = "X-Export-Result"
	HeaderContentDisposition = "Content-Disposition"
	HeaderContentLength      = "Content-Length"
)
