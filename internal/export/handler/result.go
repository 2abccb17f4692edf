package handler

import (
	"encoding/json"
	"net/http"
)

const (
	ResultTagSpreadsheet = "spreadsheet"
	ResultTagEmpty       = "empty"
	ResultTagFailure     = "failure"
)

// Result is what an export ends in. It is one of Spreadsheet, Empty or Failure.
type Result interface {
	Tag() string
	isResult()
}

type Spreadsheet struct {
	Content     []byte
	Filename    string
	RecordCount int
}

// Empty means the search matched nothing. Payload is the last raw registry page.
type Empty struct {
	Message string
	Payload json.RawMessage
}

type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailureUpstream   FailureKind = "upstream"
	FailureInternal   FailureKind = "internal"
)

type Failure struct {
	Kind    FailureKind
	Message string
	Details string
	// upstream status, 0 when the registry never answered
	Status      int
	FieldErrors map[string]string
}

func (Spreadsheet) Tag() string { return ResultTagSpreadsheet }
func (Empty) Tag() string       { return ResultTagEmpty }
func (Failure) Tag() string     { return ResultTagFailure }

func (Spreadsheet) isResult() {}
func (Empty) isResult()       {}
func (Failure) isResult()     {}

// HTTPStatus is the status code the failure is answered with.
func (f Failure) HTTPStatus() int {
	switch f.Kind {
	case FailureValidation:
		return http.StatusBadRequest
	case FailureUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UpstreamStatus is the status reported in the body of a 502: the registry's own status when
// there was one, otherwise 502.
func (f Failure) UpstreamStatus() int {
	if f.Status != 0 {
		return f.Status
	}
	return http.StatusBadGateway
}
