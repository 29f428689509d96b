package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidEntry is returned when an entry is missing a required field.
var ErrInvalidEntry = errors.New("invalid ledger entry")

func init() {
	// the ledger wire format carries amounts as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// LedgerEntry represents a single ledger record for an account
type LedgerEntry struct {
	ID             string          `json:"id"`             // unique identifier, assigned on create
	AccountName    string          `json:"accountName"`    // groups entries into an account
	AmountDue      decimal.Decimal `json:"amountDue"`      // owed by/to the account, any sign
	AmountReceived decimal.Decimal `json:"amountReceived"` // settled for this entry
	Reference      string          `json:"reference"`      // free text, optional
	Date           Date            `json:"date"`           // calendar date of the entry
}

// Validate checks the fields every stored entry must carry.
func (e LedgerEntry) Validate() error {
	if strings.TrimSpace(e.AccountName) == "" {
		return fmt.Errorf("%w: accountName is required", ErrInvalidEntry)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidEntry)
	}
	return nil
}

// WithID returns a copy of the entry carrying the given id.
func (e LedgerEntry) WithID(id string) LedgerEntry {
	e.ID = id
	return e
}

// UnmarshalJSON accepts amounts as numbers or numeric strings. A blank
// string, null or a missing amount decodes as zero, as an untouched form
// field would.
func (e *LedgerEntry) UnmarshalJSON(data []byte) error {
	type plain LedgerEntry
	aux := struct {
		*plain
		AmountDue      json.RawMessage `json:"amountDue"`
		AmountReceived json.RawMessage `json:"amountReceived"`
	}{plain: (*plain)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if e.AmountDue, err = decodeAmount(aux.AmountDue); err != nil {
		return fmt.Errorf("amountDue: %w", err)
	}
	if e.AmountReceived, err = decodeAmount(aux.AmountReceived); err != nil {
		return fmt.Errorf("amountReceived: %w", err)
	}
	return nil
}

func decodeAmount(raw json.RawMessage) (decimal.Decimal, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return decimal.Zero, err
		}
		if strings.TrimSpace(s) == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(strings.TrimSpace(s))
	}

	var d decimal.Decimal
	err := d.UnmarshalJSON(trimmed)
	return d, err
}
