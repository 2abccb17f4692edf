package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindRequest(t *testing.T, body string) (ExportRequest, error) {
	t.Helper()
	RegisterValidations()
	req := NewExportRequest()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	err := binding.JSON.Bind(httpReq, &req)
	return req, err
}

func TestBinding_DefaultsApplied(t *testing.T) {
	req, err := bindRequest(t, `{"username":"u","apiKey":"k","province":"vr","atecoCode":"1071"}`)
	require.NoError(t, err)

	assert.Equal(t, "production", req.Environment)
	assert.Equal(t, 200, req.PageSize)
	assert.Equal(t, 0, req.StartPage)
	assert.Equal(t, 1, req.MaxPages)
	assert.NotNil(t, req.ExtraFilters)
}

func TestBinding_FieldErrors(t *testing.T) {
	base := `"username":"u","apiKey":"k","province":"VR","atecoCode":"10.71"`

	tests := []struct {
		name     string
		body     string
		expected map[string]string
	}{
		{
			name:     "Test 1: missing username",
			body:     `{"apiKey":"k","province":"VR","atecoCode":"10.71"}`,
			expected: map[string]string{"username": "is required"},
		},
		{
			name:     "Test 2: province too long",
			body:     `{"username":"u","apiKey":"k","province":"VRX","atecoCode":"10.71"}`,
			expected: map[string]string{"province": "must be exactly 2 characters"},
		},
		{
			name:     "Test 3: unknown environment",
			body:     `{` + base + `,"environment":"staging"}`,
			expected: map[string]string{"environment": "must be one of: production, test"},
		},
		{
			name:     "Test 4: page size too large",
			body:     `{` + base + `,"pageSize":5000}`,
			expected: map[string]string{"pageSize": "must be at most 1000"},
		},
		{
			name:     "Test 5: negative start page",
			body:     `{` + base + `,"startPage":-1}`,
			expected: map[string]string{"startPage": "must be at least 0"},
		},
		{
			name:     "Test 6: start page beyond the last addressable page",
			body:     `{` + base + `,"startPage":1000001}`,
			expected: map[string]string{"startPage": "must be at most 1000000"},
		},
		{
			name:     "Test 7: start page overflowing int",
			body:     `{` + base + `,"startPage":9223372036854775807}`,
			expected: map[string]string{"startPage": "must be at most 1000000"},
		},
		{
			name:     "Test 8: nested extra filter",
			body:     `{` + base + `,"extraFilters":{"town":["Verona"]}}`,
			expected: map[string]string{"extraFilters": "values must be strings, numbers, booleans or null"},
		},
		{
			name:     "Test 9: wrong type",
			body:     `{` + base + `,"maxPages":"three"}`,
			expected: map[string]string{"maxPages": "must be an integer"},
		},
		{
			name:     "Test 10: extra filters not an object",
			body:     `{` + base + `,"extraFilters":[1,2]}`,
			expected: map[string]string{"extraFilters": "must be an object"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bindRequest(t, tt.body)
			require.Error(t, err)
			assert.Equal(t, tt.expected, FieldErrors(err))
		})
	}
}

func TestBinding_MalformedBody(t *testing.T) {
	_, err := bindRequest(t, `{"username":`)
	require.Error(t, err)

	fields := FieldErrors(err)
	require.Contains(t, fields, FieldBody)
	assert.True(t, strings.HasPrefix(fields[FieldBody], "invalid JSON body: "))
}

func TestBinding_ScalarExtraFiltersAccepted(t *testing.T) {
	req, err := bindRequest(t, `{"username":"u","apiKey":"k","province":"VR","atecoCode":"10.71","extraFilters":{"town":"Verona","employees":10,"active":true,"pec":null}}`)
	require.NoError(t, err)
	assert.Len(t, req.ExtraFilters, 4)
}
