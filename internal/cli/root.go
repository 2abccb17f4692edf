package cli

import (
	"context"

	"github.com/Meesho/BharatMLStack/company-export/internal/configs"
	"github.com/Meesho/BharatMLStack/company-export/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

type appConfig struct {
	Configs configs.Configs
}

func (cfg *appConfig) GetStaticConfig() interface{} {
	return &cfg.Configs
}

// NewRootCmd builds the export-cli command tree. Configuration is read from the environment
// before any subcommand runs.
func NewRootCmd() *cobra.Command {
	cfg := &appConfig{}
	root := &cobra.Command{
		Use:           "export-cli",
		Short:         "Export companies from the business registry to a spreadsheet",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configs.InitConfig(cfg)
			logger.Init(cfg.Configs)
		},
	}
	root.AddCommand(newExportCmd(cfg))
	return root
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
