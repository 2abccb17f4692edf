package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAtecoCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Test 1: empty", input: "", expected: ""},
		{name: "Test 2: one digit", input: "4", expected: "4"},
		{name: "Test 3: two digits", input: "10", expected: "10"},
		{name: "Test 4: three digits", input: "107", expected: "10.7"},
		{name: "Test 5: four digits", input: "1071", expected: "10.71"},
		{name: "Test 6: dotted", input: "10.71", expected: "10.71"},
		{name: "Test 7: full code truncated", input: "10.71.10", expected: "10.71"},
		{name: "Test 8: separators and letters", input: " c-10/7 ", expected: "10.7"},
		{name: "Test 9: no digits", input: "abc", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeAtecoCode(tt.input))
		})
	}
}

func TestAtecoDigits(t *testing.T) {
	assert.Equal(t, "1071", AtecoDigits("10.71"))
	assert.Equal(t, "107110", AtecoDigits("10.71.10"))
	assert.Equal(t, "", AtecoDigits("--"))
}

func TestConvertExtraFilters(t *testing.T) {
	converted := ConvertExtraFilters(map[string]interface{}{
		"town":      "Verona",
		"employees": float64(12),
		"turnover":  2.5,
		"active":    true,
		"closed":    false,
		"exact":     json.Number("1.0"),
		"pec":       nil,
	})

	assert.Equal(t, map[string]string{
		"town":      "Verona",
		"employees": "12",
		"turnover":  "2.5",
		"active":    "true",
		"closed":    "false",
		"exact":     "1.0",
	}, converted)
	_, present := converted["pec"]
	assert.False(t, present, "nil values are dropped")
}

func TestConvertExtraFilters_LargeIntegerHasNoExponent(t *testing.T) {
	converted := ConvertExtraFilters(map[string]interface{}{"vatCode": float64(12345678901)})
	assert.Equal(t, "12345678901", converted["vatCode"])
}

func TestBuildFilters(t *testing.T) {
	filters := BuildFilters("VR", "10.71", map[string]string{
		"town":     "Verona",
		"province": "MI",
		" ":        "blank key",
	})

	assert.Equal(t, map[string]string{
		"town":      "Verona",
		"province":  "VR",
		"atecoCode": "10.71",
	}, filters)
}

func TestBuildFilename(t *testing.T) {
	day := time.Date(2024, time.May, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		province  string
		atecoCode string
		now       time.Time
		expected  string
	}{
		{name: "Test 1: dotted code", province: "VR", atecoCode: "10.71", now: day, expected: "aziende_VR_1071_2024-05-01.xlsx"},
		{name: "Test 2: lower case province", province: "vr", atecoCode: "10.71", now: day, expected: "aziende_VR_1071_2024-05-01.xlsx"},
		{
			name:      "Test 3: date is taken in UTC",
			province:  "MI",
			atecoCode: "62.01",
			now:       time.Date(2024, time.May, 2, 1, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
			expected:  "aziende_MI_6201_2024-05-01.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildFilename(tt.province, tt.atecoCode, tt.now))
		})
	}
}
