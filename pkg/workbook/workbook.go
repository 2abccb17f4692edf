package workbook

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	ContentType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	DefaultSheetName = "Aziende"

	// header of the row number column written when no record has any field
	RowNumberHeader = "#"

	// name of the sheet excelize creates with a new file
	initialSheetName = "Sheet1"
)

// Headers returns the union of record keys, in the order they were first seen.
func Headers(records []Record) []string {
	seen := make(map[string]struct{})
	headers := make([]string, 0)
	for _, record := range records {
		for _, key := range record.keys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			headers = append(headers, key)
		}
	}
	return headers
}

// Build writes records to a single-sheet xlsx document: one header row, then one row per record.
// A record missing a header key gets an empty cell. When no record has any field, a single
// row number column is written so every record still gets a row.
func Build(records []Record, sheetName string) ([]byte, error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(initialSheetName, sheetName); err != nil {
		return nil, fmt.Errorf("workbook: renaming sheet: %w", err)
	}

	headers := Headers(records)
	rowNumbers := len(headers) == 0 && len(records) > 0
	if rowNumbers {
		headers = []string{RowNumberHeader}
	}
	if len(headers) > 0 {
		if err := writeHeader(f, sheetName, headers); err != nil {
			return nil, err
		}
	}

	for i, record := range records {
		row := make([]interface{}, len(headers))
		for j, header := range headers {
			value, _ := record.Get(header)
			row[j] = cellValue(value)
		}
		if rowNumbers {
			row[0] = i + 1
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("workbook: row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("workbook: writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("workbook: serializing: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheetName string, headers []string) error {
	row := make([]interface{}, len(headers))
	for i, header := range headers {
		row[i] = header
	}
	if err := f.SetSheetRow(sheetName, "A1", &row); err != nil {
		return fmt.Errorf("workbook: writing header: %w", err)
	}

	lastCell, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("workbook: header range: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("workbook: header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCell, style); err != nil {
		return fmt.Errorf("workbook: applying header style: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("workbook: freezing header: %w", err)
	}
	if err := f.AutoFilter(sheetName, "A1:"+lastCell, nil); err != nil {
		return fmt.Errorf("workbook: header filter: %w", err)
	}
	return nil
}

func cellValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case json.RawMessage:
		return string(v)
	default:
		return v
	}
}

// Read parses an xlsx document and returns every row of the named sheet, or of the first
// sheet when sheetName is empty.
func Read(content []byte, sheetName string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("workbook: opening document: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("workbook: reading sheet %q: %w", sheetName, err)
	}
	return rows, nil
}
