// Package cmd provides the ledgerctl commands.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/client"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/config"
)

// app carries what every subcommand shares.
type app struct {
	apiURL string
	debug  bool
	logger *zap.Logger
	client *client.Client
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Manage bookkeeping ledger entries",
		Long: `ledgerctl talks to the ledger API server.

It supports:
- Adding and updating entries
- Listing entries and account summaries
- Importing and exporting CSV
- Rendering a printable HTML ledger

Example:
  ledgerctl add --account Acme --due 1000 --received 400 --reference INV1 --date 2024-01-01
  ledgerctl summary Acme
  ledgerctl export -o ledger_data.csv`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "ledger API base URL (default from LEDGER_API_URL or "+config.DefaultAPIBaseURL+")")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newAddCmd(a),
		newUpdateCmd(a),
		newListCmd(a),
		newSummaryCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newPrintCmd(a),
	)
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = logger
	}

	if a.apiURL == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.apiURL = cfg.APIBaseURL
	}

	a.logger.Debug("using ledger api", zap.String("url", a.apiURL))
	a.client = client.New(a.apiURL)
	return nil
}

// writeOutput runs render against path, or stdout when path is "-".
func writeOutput(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	if path == "-" {
		return render(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
