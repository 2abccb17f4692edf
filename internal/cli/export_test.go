package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Meesho/BharatMLStack/company-export/internal/export/handler"
	"github.com/Meesho/BharatMLStack/company-export/internal/registrystub"
	"github.com/Meesho/BharatMLStack/company-export/pkg/workbook"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func startStub(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte("demo-key"), bcrypt.MinCost)
	require.NoError(t, err)
	stub, err := registrystub.New(registrystub.Config{
		JWTSecret: []byte("secret"),
		Users:     map[string][]byte{"demo": hash},
		Companies: registrystub.GenerateCompanies(160),
	})
	require.NoError(t, err)
	router := gin.New()
	stub.Register(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	t.Setenv("REGISTRY_TEST_AUTH_URL", server.URL)
	t.Setenv("REGISTRY_TEST_SEARCH_URL", server.URL+registrystub.SearchPath)
	t.Setenv("APP_LOG_LEVEL", "ERROR")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	startStub(t)
	outDir := t.TempDir()

	tests := []struct {
		name        string
		args        []string
		expectFile  bool
		expectOut   string
		expectError string
	}{
		{
			name: "Test 1: records are written and verified",
			args: []string{"export", "--username", "demo", "--api-key", "demo-key", "--environment", "test",
				"--province", "vr", "--ateco", "1071", "--page-size", "3", "--max-pages", "2", "--out", outDir, "--verify"},
			expectFile: true,
			expectOut:  "verified 5 rows (4 records + header)",
		},
		{
			name: "Test 2: no matching companies",
			args: []string{"export", "--username", "demo", "--api-key", "demo-key", "--environment", "test",
				"--province", "ZZ", "--ateco", "1071", "--out", outDir},
			expectOut: handler.NoRecordsMessage,
		},
		{
			name: "Test 3: wrong api key",
			args: []string{"export", "--username", "demo", "--api-key", "wrong", "--environment", "test",
				"--province", "VR", "--ateco", "1071", "--out", outDir},
			expectError: "registry error (status 401): invalid username or API key",
		},
		{
			name: "Test 4: invalid province",
			args: []string{"export", "--username", "demo", "--api-key", "demo-key", "--environment", "test",
				"--province", "VRX", "--ateco", "1071", "--out", outDir},
			expectError: "province:must be exactly 2 characters",
		},
		{
			name: "Test 5: malformed filters",
			args: []string{"export", "--username", "demo", "--api-key", "demo-key", "--environment", "test",
				"--province", "VR", "--ateco", "1071", "--filters", "{", "--out", outDir},
			expectError: "--filters must be a JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.expectOut)

			files, globErr := filepath.Glob(filepath.Join(outDir, "aziende_VR_1071_*.xlsx"))
			require.NoError(t, globErr)
			if !tt.expectFile {
				return
			}
			require.Len(t, files, 1)
			content, readErr := os.ReadFile(files[0])
			require.NoError(t, readErr)
			rows, readErr := workbook.Read(content, workbook.DefaultSheetName)
			require.NoError(t, readErr)
			assert.Len(t, rows, 5)
		})
	}
}

func TestParseFilters(t *testing.T) {
	extra, err := parseFilters(`{"employees": 10, "town": "Verona", "pec": null}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"employees": "10", "town": "Verona"}, handler.ConvertExtraFilters(extra))

	extra, err = parseFilters("  ")
	require.NoError(t, err)
	assert.Empty(t, extra)

	_, err = parseFilters(`[1]`)
	assert.Error(t, err)

	for _, raw := range []string{`null`, `{} x`, `{"a":1} {"b":2}`} {
		_, err = parseFilters(raw)
		assert.Error(t, err, "filters %q should be rejected", raw)
	}
}
