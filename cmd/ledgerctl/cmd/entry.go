package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
)

// entryFlags are the form fields of a ledger entry.
type entryFlags struct {
	account   string
	due       string
	received  string
	reference string
	date      string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", "", "Account name (required)")
	cmd.Flags().StringVar(&f.due, "due", "0", "Amount due")
	cmd.Flags().StringVar(&f.received, "received", "0", "Amount received")
	cmd.Flags().StringVar(&f.reference, "reference", "", "Reference, e.g. an invoice number")
	cmd.Flags().StringVar(&f.date, "date", "", "Date (YYYY-MM-DD) (required)")

	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("date")
}

func (f *entryFlags) entry() (models.LedgerEntry, error) {
	due, err := parseAmount("due", f.due)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	received, err := parseAmount("received", f.received)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	date, err := models.ParseDate(f.date)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	entry := models.LedgerEntry{
		AccountName:    f.account,
		AmountDue:      due,
		AmountReceived: received,
		Reference:      f.reference,
		Date:           date,
	}
	return entry, entry.Validate()
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, s, err)
	}
	return d, nil
}

func printEntry(cmd *cobra.Command, verb string, e models.LedgerEntry) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s entry %s: %s due %s received %s on %s\n",
		verb, e.ID, e.AccountName, e.AmountDue, e.AmountReceived, e.Date)
}
