// Package export renders ledger entries as CSV or a printable HTML page,
// and parses CSV files back into entries for bulk import.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
)

// ErrEmptyImport is returned when a CSV file has no usable rows.
var ErrEmptyImport = errors.New("no ledger entries to import")

// Column labels written by ExportCSV, in order.
var Header = []string{"Account Name", "Amount Due", "Amount Received", "Reference", "Date"}

// field names accepted by ImportCSV, lower-cased, per column of Header
var importAliases = [][]string{
	{"accountname", "account name", "account"},
	{"amountdue", "amount due", "due"},
	{"amountreceived", "amount received", "received"},
	{"reference"},
	{"date"},
}

const (
	colAccount = iota
	colDue
	colReceived
	colReference
	colDate
)

// ExportCSV renders one row per entry under Header. Rows are separated by
// "\n" and the output has no trailing newline.
func ExportCSV(entries []models.LedgerEntry) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return "", err
	}
	for _, e := range entries {
		row := []string{
			e.AccountName,
			e.AmountDue.String(),
			e.AmountReceived.String(),
			e.Reference,
			e.Date.String(),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ImportCSV parses a CSV file with a header row. Columns are matched by
// field name or export label, case-insensitively, in any order. Rows with
// an empty account name are skipped.
func ImportCSV(r io.Reader) ([]models.LedgerEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyImport
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var entries []models.LedgerEntry
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		get := func(col int) string {
			i := cols[col]
			if i < 0 || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if get(colAccount) == "" {
			continue
		}
		entry, err := parseRow(get)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, ErrEmptyImport
	}
	return entries, nil
}

func parseRow(get func(int) string) (models.LedgerEntry, error) {
	due, err := parseAmount(get(colDue))
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("amount due: %w", err)
	}
	received, err := parseAmount(get(colReceived))
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("amount received: %w", err)
	}
	date, err := models.ParseDate(get(colDate))
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("date: %w", err)
	}
	return models.LedgerEntry{
		AccountName:    get(colAccount),
		AmountDue:      due,
		AmountReceived: received,
		Reference:      get(colReference),
		Date:           date,
	}, nil
}

// parseAmount treats a blank cell as zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// mapColumns returns, for each known column, its index in header or -1.
func mapColumns(header []string) ([]int, error) {
	cols := []int{-1, -1, -1, -1, -1}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for col, aliases := range importAliases {
			for _, alias := range aliases {
				if name == alias && cols[col] < 0 {
					cols[col] = i
				}
			}
		}
	}
	if cols[colAccount] < 0 {
		return nil, fmt.Errorf("csv header has no account name column: %q", header)
	}
	return cols, nil
}
