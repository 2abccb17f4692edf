package handler

// MaxStartPage keeps page*pageSize well inside int range.
const MaxStartPage = 1000000

const (
	DefaultEnvironment = "production"
	DefaultPageSize    = 200
	DefaultStartPage   = 0
	DefaultMaxPages    = 1
)

// ExportRequest is the body of POST /api/export.
type ExportRequest struct {
	Username     string                 `json:"username" binding:"required"`
	APIKey       string                 `json:"apiKey" binding:"required"`
	Environment  string                 `json:"environment" binding:"required,oneof=production test"`
	Province     string                 `json:"province" binding:"required,len=2"`
	AtecoCode    string                 `json:"atecoCode" binding:"required"`
	PageSize     int                    `json:"pageSize" binding:"min=1,max=1000"`
	StartPage    int                    `json:"startPage" binding:"min=0,max=1000000"`
	MaxPages     int                    `json:"maxPages" binding:"min=1,max=100"`
	ExtraFilters map[string]interface{} `json:"extraFilters" binding:"scalarmap"`
}

// NewExportRequest returns a request holding the defaults; decoding a body into it overrides
// only the fields the body sets.
func NewExportRequest() ExportRequest {
	return ExportRequest{
		Environment:  DefaultEnvironment,
		PageSize:     DefaultPageSize,
		StartPage:    DefaultStartPage,
		MaxPages:     DefaultMaxPages,
		ExtraFilters: map[string]interface{}{},
	}
}
