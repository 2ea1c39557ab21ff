// File: cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ma63d/youmind-skill/internal/config"
	"github.com/Ma63d/youmind-skill/internal/observability"
)

var (
	cfgFile string

	// cfg is populated by the persistent pre-run and read by subcommands.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "youmind-skill",
	Short: "Ask questions through a Youmind board chat from the command line.",
	Long: `youmind-skill drives a real Chrome session against a Youmind board:
it submits a question into the board chat the way a person would and
prints the finished answer to stdout. A saved sign-in (state.json) is
required; the tool never performs the sign-in itself.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			// Fall back to a minimal logger so the failure is still visible
			// in structured form.
			observability.InitializeLogger(config.LoggerConfig{
				Level: "info", Format: "console", ServiceName: "youmind-skill",
			})
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		observability.InitializeLogger(cfg.Logger)
		observability.Logger().Debug("starting youmind-skill", zap.String("version", Version))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		observability.Sync()
	},
}

// Execute runs the CLI. It exits non-zero on any command failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		observability.Logger().Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		observability.Sync()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
