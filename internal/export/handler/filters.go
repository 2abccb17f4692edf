package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	FilterProvince  = "province"
	FilterAtecoCode = "atecoCode"
)

// AtecoDigits drops everything but the digits of an ATECO code.
func AtecoDigits(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

// NormalizeAtecoCode turns "1071", "10.71.10" or "10-7" into the dotted form the registry
// expects: at most four digits, with a dot after the second one.
func NormalizeAtecoCode(raw string) string {
	digits := AtecoDigits(raw)
	switch {
	case len(digits) <= 2:
		return digits
	case len(digits) == 3:
		return digits[:2] + "." + digits[2:]
	default:
		return digits[:2] + "." + digits[2:4]
	}
}

func NormalizeProvince(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ConvertExtraFilters flattens filter values to strings. Nil values are dropped.
func ConvertExtraFilters(extra map[string]interface{}) map[string]string {
	converted := make(map[string]string, len(extra))
	for key, value := range extra {
		if value == nil {
			continue
		}
		converted[key] = scalarString(value)
	}
	return converted
}

func scalarString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// isScalar reports whether value can be sent as a single filter value.
func isScalar(value interface{}) bool {
	switch value.(type) {
	case nil, string, bool, float64, float32, json.Number, int, int64:
		return true
	}
	return false
}

// BuildFilters merges the extra filters with province and ATECO code. The two fixed filters
// always win over extra filters with the same key.
func BuildFilters(province, atecoCode string, extra map[string]string) map[string]string {
	filters := make(map[string]string, len(extra)+2)
	for key, value := range extra {
		if strings.TrimFunc(key, unicode.IsSpace) == "" {
			continue
		}
		filters[key] = value
	}
	filters[FilterProvince] = province
	filters[FilterAtecoCode] = atecoCode
	return filters
}
