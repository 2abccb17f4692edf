package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Meesho/BharatMLStack/company-export/internal/export/handler"
	"github.com/Meesho/BharatMLStack/company-export/internal/externalcall"
	"github.com/Meesho/BharatMLStack/company-export/pkg/workbook"
	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// viper keys, resolvable from flags or from EXPORT_* env vars
const (
	keyUsername    = "export_username"
	keyAPIKey      = "export_api_key"
	keyEnvironment = "export_environment"
	keyProvince    = "export_province"
	keyAtecoCode   = "export_ateco_code"
	keyPageSize    = "export_page_size"
	keyStartPage   = "export_start_page"
	keyMaxPages    = "export_max_pages"
	keyFilters     = "export_filters"
	keyOutDir      = "export_out_dir"
)

func newExportCmd(cfg *appConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run one export and write the workbook to disk",
		Example: "  export-cli export --username mario.rossi --api-key $KEY --province VR --ateco 10.71 --out ./exports\n" +
			"  EXPORT_API_KEY=$KEY export-cli export --username mario.rossi --province MI --ateco 6201 --max-pages 5 --verify",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("username", "", "registry username (env EXPORT_USERNAME)")
	flags.String("api-key", "", "registry API key (env EXPORT_API_KEY)")
	flags.String("environment", handler.DefaultEnvironment, "registry environment: production or test")
	flags.String("province", "", "two letter province code")
	flags.String("ateco", "", "ATECO code, raw (1071) or dotted (10.71)")
	flags.Int("page-size", handler.DefaultPageSize, "records per registry page")
	flags.Int("start-page", handler.DefaultStartPage, "first page to fetch, zero based")
	flags.Int("max-pages", handler.DefaultMaxPages, "maximum number of pages to fetch")
	flags.String("filters", "{}", "extra filters as a JSON object")
	flags.String("out", ".", "directory the workbook is written to")
	flags.Bool("verify", false, "re-read the written workbook and check its row count")

	for key, name := range map[string]string{
		keyUsername:    "username",
		keyAPIKey:      "api-key",
		keyEnvironment: "environment",
		keyProvince:    "province",
		keyAtecoCode:   "ateco",
		keyPageSize:    "page-size",
		keyStartPage:   "start-page",
		keyMaxPages:    "max-pages",
		keyFilters:     "filters",
		keyOutDir:      "out",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
	return cmd
}

func runExport(cmd *cobra.Command, cfg *appConfig) error {
	req, err := requestFromViper()
	if err != nil {
		return err
	}
	handler.RegisterValidations()
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return fmt.Errorf("invalid export request: %v", handler.FieldErrors(err))
	}

	client, err := externalcall.NewRegistryClient(externalcall.RegistryConfigFromConfigs(cfg.Configs))
	if err != nil {
		return fmt.Errorf("configuring registry client: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch result := handler.NewHandler(client, time.Now).Export(ctx, req).(type) {
	case handler.Spreadsheet:
		path, err := writeWorkbook(viper.GetString(keyOutDir), result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %d companies to %s\n", result.RecordCount, path)
		verify, _ := cmd.Flags().GetBool("verify")
		if verify {
			return verifyWorkbook(cmd, path, result.RecordCount)
		}
		return nil
	case handler.Empty:
		fmt.Fprintln(out, result.Message)
		return nil
	case handler.Failure:
		if result.Kind == handler.FailureUpstream {
			if result.Details != "" {
				return fmt.Errorf("registry error (status %d): %s: %s", result.UpstreamStatus(), result.Message, result.Details)
			}
			return fmt.Errorf("registry error (status %d): %s", result.UpstreamStatus(), result.Message)
		}
		return errors.New(result.Message)
	default:
		return fmt.Errorf("unexpected export result %T", result)
	}
}

func requestFromViper() (handler.ExportRequest, error) {
	req := handler.NewExportRequest()
	req.Username = viper.GetString(keyUsername)
	req.APIKey = viper.GetString(keyAPIKey)
	req.Environment = viper.GetString(keyEnvironment)
	req.Province = handler.NormalizeProvince(viper.GetString(keyProvince))
	req.AtecoCode = viper.GetString(keyAtecoCode)
	req.PageSize = viper.GetInt(keyPageSize)
	req.StartPage = viper.GetInt(keyStartPage)
	req.MaxPages = viper.GetInt(keyMaxPages)

	extra, err := parseFilters(viper.GetString(keyFilters))
	if err != nil {
		return req, err
	}
	req.ExtraFilters = extra
	return req, nil
}

func parseFilters(raw string) (map[string]interface{}, error) {
	extra := map[string]interface{}{}
	if strings.TrimSpace(raw) == "" {
		return extra, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&extra); err != nil {
		return nil, fmt.Errorf("--filters must be a JSON object: %w", err)
	}
	if extra == nil {
		return nil, errors.New("--filters must be a JSON object, got null")
	}
	if dec.More() {
		return nil, errors.New("--filters must be a single JSON object")
	}
	return extra, nil
}

func writeWorkbook(dir string, sheet handler.Spreadsheet) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, sheet.Filename)
	if err := os.WriteFile(path, sheet.Content, 0o644); err != nil {
		return "", fmt.Errorf("writing workbook: %w", err)
	}
	return path, nil
}

func verifyWorkbook(cmd *cobra.Command, path string, records int) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading workbook back: %w", err)
	}
	rows, err := workbook.Read(content, workbook.DefaultSheetName)
	if err != nil {
		return fmt.Errorf("parsing workbook back: %w", err)
	}
	if len(rows) != records+1 {
		return fmt.Errorf("workbook has %d rows, expected %d records plus a header", len(rows), records)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "verified %d rows (%d records + header)\n", len(rows), records)
	return nil
}
