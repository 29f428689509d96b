package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/export"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk insert entries from a CSV file",
		Long: `Read entries from a CSV file with a header row and insert them in one
batch. Columns may be named like the export (Account Name, Amount Due, ...)
or by field (accountName, amountDue, ...). Rows without an account are skipped.
Either every row is inserted or none is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			entries, err := export.ImportCSV(f)
			if err != nil {
				return err
			}
			a.logger.Debug("parsed csv", zap.String("file", args[0]), zap.Int("entries", len(entries)))

			n, err := a.client.CreateBulk(cmd.Context(), entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", n)
			return nil
		},
	}
}
