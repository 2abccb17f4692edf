package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTag(t *testing.T) {
	tags := BuildTag(
		NewTag(TagPath, "/api/export"),
		NewTag(TagHttpStatusCode, "502"),
	)
	assert.Equal(t, []string{"path:/api/export", "http_status_code:502"}, tags)
	assert.Empty(t, BuildTag())
}
