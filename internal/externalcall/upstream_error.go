package externalcall

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

const (
	OperationToken  = "token"
	OperationSearch = "search"

	// upstream bodies are echoed back to the caller as details, keep them short
	maxUpstreamBodyLength = 2048
)

// UpstreamError is returned for every failed registry call: transport failure, non-2xx status,
// or a payload that cannot be used. Status is 0 when no response was received.
type UpstreamError struct {
	Operation string
	Status    int
	Message   string
	Body      string
	Cause     error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString("registry ")
	b.WriteString(e.Operation)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// Details is the raw upstream body when there was one, otherwise the underlying cause.
func (e *UpstreamError) Details() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return ""
}

type upstreamMessage struct {
	Message     string          `json:"message"`
	Error       json.RawMessage `json:"error"`
	Description string          `json:"error_description"`
}

// newStatusError builds the error for a non-2xx registry response, preferring the message the
// registry put in its body.
func newStatusError(operation string, status int, body []byte) *UpstreamError {
	message := extractUpstreamMessage(body)
	if message == "" {
		message = fmt.Sprintf("%s request failed with status %d %s", operation, status, http.StatusText(status))
	}
	return &UpstreamError{
		Operation: operation,
		Status:    status,
		Message:   message,
		Body:      truncateBody(body),
	}
}

func extractUpstreamMessage(body []byte) string {
	var parsed upstreamMessage
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	if len(parsed.Error) > 0 {
		var text string
		if err := json.Unmarshal(parsed.Error, &text); err == nil && text != "" {
			return text
		}
		var nested upstreamMessage
		if err := json.Unmarshal(parsed.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return parsed.Description
}

func truncateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxUpstreamBodyLength {
		cut := maxUpstreamBodyLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		return text[:cut] + "..."
	}
	return text
}
