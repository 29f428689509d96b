package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAddCmd(a *app) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a ledger entry",
		Example: `  ledgerctl add --account Acme --due 1000 --received 400 --reference INV1 --date 2024-01-01`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := flags.entry()
			if err != nil {
				return err
			}
			created, err := a.client.Create(cmd.Context(), entry)
			if err != nil {
				return err
			}
			a.logger.Debug("entry created", zap.String("id", created.ID))
			printEntry(cmd, "Added", created)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
