package handler

import (
	"fmt"
	"time"
)

const filenameDateLayout = "2006-01-02"

// BuildFilename names the exported workbook, e.g. aziende_VR_1071_2024-05-01.xlsx. The date is
// taken in UTC.
func BuildFilename(province, atecoCode string, now time.Time) string {
	return fmt.Sprintf("aziende_%s_%s_%s.xlsx",
		NormalizeProvince(province),
		AtecoDigits(atecoCode),
		now.UTC().Format(filenameDateLayout),
	)
}
