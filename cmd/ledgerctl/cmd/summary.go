package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "summary <account>",
		Short:   "Show totals and balance for an account",
		Example: `  ledgerctl summary "Acme Corp"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.client.Summary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Summary for %s\n", s.AccountName)
			fmt.Fprintf(out, "Total Due: %s\n", s.TotalDue)
			fmt.Fprintf(out, "Total Received: %s\n", s.TotalReceived)
			fmt.Fprintf(out, "Balance: %s\n", s.Balance)
			return nil
		},
	}
}
