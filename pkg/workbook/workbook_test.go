package workbook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecords(t *testing.T, payload string) []Record {
	t.Helper()
	var records []Record
	require.NoError(t, json.Unmarshal([]byte(payload), &records))
	return records
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	var record Record
	err := json.Unmarshal([]byte(`{"vatCode":"01234567890","employees":12,"turnover":1250.5,`+
		`"active":true,"pec":null,"address":{ "town": "Verona", "zip": "37100" },"tags":[1, 2]}`), &record)
	require.NoError(t, err)

	assert.Equal(t, []string{"vatCode", "employees", "turnover", "active", "pec", "address", "tags"}, record.Keys())

	vat, _ := record.Get("vatCode")
	assert.Equal(t, "01234567890", vat, "numeric looking strings stay strings")
	employees, _ := record.Get("employees")
	assert.Equal(t, json.Number("12"), employees)
	active, _ := record.Get("active")
	assert.Equal(t, true, active)
	pec, ok := record.Get("pec")
	assert.True(t, ok)
	assert.Nil(t, pec)
	address, _ := record.Get("address")
	assert.Equal(t, json.RawMessage(`{"town":"Verona","zip":"37100"}`), address)
	tags, _ := record.Get("tags")
	assert.Equal(t, json.RawMessage(`[1,2]`), tags)
}

func TestRecord_UnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "Test 1: array instead of object", payload: `[1,2,3]`},
		{name: "Test 2: string instead of object", payload: `"company"`},
		{name: "Test 3: truncated object", payload: `{"a":1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var record Record
			assert.Error(t, record.UnmarshalJSON([]byte(tt.payload)))
		})
	}
}

func TestRecord_MarshalJSON_KeepsOrder(t *testing.T) {
	record := NewRecord().
		Set("zeta", "last letter").
		Set("alpha", json.Number("1")).
		Set("nested", json.RawMessage(`{"b":1,"a":2}`)).
		Set("zeta", "overwritten")

	encoded, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"overwritten","alpha":1,"nested":{"b":1,"a":2}}`, string(encoded))
}

func TestHeaders_FirstSeenOrder(t *testing.T) {
	records := decodeRecords(t, `[
		{"companyName":"Forno Rossi","province":"VR"},
		{"companyName":"Pasticceria Bianchi","atecoCode":"10.71","province":"VR"},
		{"vatCode":"0987654321"}
	]`)
	assert.Equal(t, []string{"companyName", "province", "atecoCode", "vatCode"}, Headers(records))
	assert.Empty(t, Headers(nil))
}

func TestBuild_RoundTrip(t *testing.T) {
	records := decodeRecords(t, `[
		{"companyName":"Forno Rossi","province":"VR","employees":12,"active":true},
		{"companyName":"Pasticceria Bianchi","province":"VR","turnover":99.5,"address":{"town":"Verona"}},
		{"companyName":"Panificio Verdi","province":"VR","pec":null}
	]`)

	content, err := Build(records, "")
	require.NoError(t, err)
	require.NotEmpty(t, content)

	rows, err := Read(content, DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1, "one header row plus one row per record")

	assert.Equal(t, []string{"companyName", "province", "employees", "active", "turnover", "address", "pec"}, rows[0])
	require.GreaterOrEqual(t, len(rows[1]), 4)
	assert.Equal(t, []string{"Forno Rossi", "VR", "12", "TRUE"}, rows[1][:4])
	assert.Equal(t, "Pasticceria Bianchi", rows[2][0])
	assert.Equal(t, "99.5", rows[2][4])
	assert.Equal(t, `{"town":"Verona"}`, rows[2][5])
	require.GreaterOrEqual(t, len(rows[3]), 2)
	assert.Equal(t, []string{"Panificio Verdi", "VR"}, rows[3][:2])
}

func TestBuild_CustomSheetName(t *testing.T) {
	records := decodeRecords(t, `[{"a":"1"},{"a":"2"}]`)

	content, err := Build(records, "Export")
	require.NoError(t, err)

	rows, err := Read(content, "")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"1"}, {"2"}}, rows)

	_, err = Read(content, DefaultSheetName)
	assert.Error(t, err, "the default sheet should not exist")
}

func TestRead_InvalidContent(t *testing.T) {
	_, err := Read([]byte("not a spreadsheet"), "")
	assert.Error(t, err)
}

func TestBuild_RecordsWithoutFields(t *testing.T) {
	records := decodeRecords(t, `[{},{}]`)

	content, err := Build(records, "")
	require.NoError(t, err)

	rows, err := Read(content, DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1)
	assert.Equal(t, []string{RowNumberHeader}, rows[0])
	assert.Equal(t, []string{"1"}, rows[1])
	assert.Equal(t, []string{"2"}, rows[2])
}
