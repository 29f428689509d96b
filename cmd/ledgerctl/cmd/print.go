package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/export"
)

func newPrintCmd(a *app) *cobra.Command {
	var (
		account string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Render a printable HTML ledger",
		Long: `Write the entries as an HTML table. Opening the file in a browser
starts printing and closes the window afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.fetch(cmd.Context(), account)
			if err != nil {
				return err
			}
			err = writeOutput(cmd, output, func(w io.Writer) error {
				return export.WritePrintHTML(w, entries)
			})
			if err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d entries)\n", output, len(entries))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Only entries of this account")
	cmd.Flags().StringVarP(&output, "output", "o", "ledger.html", `Output file ("-" for stdout)`)
	return cmd
}

