package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
)

func newListCmd(a *app) *cobra.Command {
	var (
		account string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.fetch(cmd.Context(), account)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tACCOUNT\tDUE\tRECEIVED\tREFERENCE\tDATE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.AccountName, e.AmountDue, e.AmountReceived, e.Reference, e.Date)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Only entries of this account")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

// fetch lists every entry, or one account's entries when account is set.
func (a *app) fetch(ctx context.Context, account string) ([]models.LedgerEntry, error) {
	if account != "" {
		return a.client.ListByAccount(ctx, account)
	}
	return a.client.List(ctx)
}
