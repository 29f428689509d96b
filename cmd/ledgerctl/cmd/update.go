package cmd

import (
	"github.com/spf13/cobra"
)

func newUpdateCmd(a *app) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Replace a ledger entry",
		Long: `Replace every field of an existing entry. Fields not given on the
command line are cleared, the same as an emptied form field.`,
		Example: `  ledgerctl update 3f0c... --account Acme --due 1000 --received 1000 --reference INV1 --date 2024-01-01`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := flags.entry()
			if err != nil {
				return err
			}
			updated, err := a.client.Update(cmd.Context(), args[0], entry)
			if err != nil {
				return err
			}
			printEntry(cmd, "Updated", updated)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
