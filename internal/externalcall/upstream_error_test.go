package externalcall

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "Test 1: short body is trimmed only", body: "  short  ", expected: "short"},
		{
			name:     "Test 2: ascii body cut at the limit",
			body:     strings.Repeat("a", maxUpstreamBodyLength+10),
			expected: strings.Repeat("a", maxUpstreamBodyLength) + "...",
		},
		{
			name:     "Test 3: multi-byte rune across the limit is dropped whole",
			body:     strings.Repeat("a", maxUpstreamBodyLength-1) + "è" + "tail",
			expected: strings.Repeat("a", maxUpstreamBodyLength-1) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateBody([]byte(tt.body))
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
