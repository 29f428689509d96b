package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/export"
)

// NoEntriesMessage is printed instead of writing an empty export.
const NoEntriesMessage = "No ledger entries to export."

func newExportCmd(a *app) *cobra.Command {
	var (
		account string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries as CSV",
		Example: `  ledgerctl export -o ledger_data.csv
  ledgerctl export --account Acme -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.fetch(cmd.Context(), account)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), NoEntriesMessage)
				return nil
			}

			text, err := export.ExportCSV(entries)
			if err != nil {
				return err
			}
			err = writeOutput(cmd, output, func(w io.Writer) error {
				_, err := io.WriteString(w, text)
				return err
			})
			if err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Only entries of this account")
	cmd.Flags().StringVarP(&output, "output", "o", "ledger_data.csv", `Output file ("-" for stdout)`)
	return cmd
}
