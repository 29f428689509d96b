package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-01", "2024-01-01"},
		{"2024-02-01T00:00:00.000Z", "2024-02-01"},
		{"2024-03-15T23:59:59+05:30", "2024-03-15"},
		{"  2024-12-31 ", "2024-12-31"},
		{"", ""},
	}
	for _, tc := range tests {
		d, err := ParseDate(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, d.String(), tc.in)
	}

	_, err := ParseDate("01/02/2024")
	assert.Error(t, err)
}

func TestDateOfDropsTime(t *testing.T) {
	d := DateOf(time.Date(2024, 5, 6, 13, 14, 15, 0, time.FixedZone("x", 3600)))
	assert.Equal(t, NewDate(2024, time.May, 6), d)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "2024-01-02", d.String())

	require.NoError(t, d.Scan([]byte("2024-01-03")))
	assert.Equal(t, "2024-01-03", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDateValue(t *testing.T) {
	v, err := MustParseDate("2024-01-01").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestLedgerEntryJSON(t *testing.T) {
	e := LedgerEntry{
		ID:             "abc",
		AccountName:    "Acme",
		AmountDue:      decimal.NewFromInt(1000),
		AmountReceived: decimal.RequireFromString("400.5"),
		Reference:      "INV1",
		Date:           MustParseDate("2024-01-01"),
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "abc",
		"accountName": "Acme",
		"amountDue": 1000,
		"amountReceived": 400.5,
		"reference": "INV1",
		"date": "2024-01-01"
	}`, string(data))
}

func TestLedgerEntryAcceptsFormStrings(t *testing.T) {
	// browser forms post every field as a string, timestamps included
	body := `{"accountName":"Acme","amountDue":"1000","amountReceived":"400","reference":"INV1","date":"2024-01-01T00:00:00.000Z"}`

	var e LedgerEntry
	require.NoError(t, json.Unmarshal([]byte(body), &e))
	assert.True(t, e.AmountDue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, e.AmountReceived.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, "2024-01-01", e.Date.String())
	assert.NoError(t, e.Validate())

	// amounts left empty on the form
	blank := `{"accountName":"Acme","amountDue":"","amountReceived":" ","reference":"","date":"2024-01-01"}`
	var b LedgerEntry
	require.NoError(t, json.Unmarshal([]byte(blank), &b))
	assert.True(t, b.AmountDue.IsZero())
	assert.True(t, b.AmountReceived.IsZero())
	assert.NoError(t, b.Validate())

	var missing LedgerEntry
	require.NoError(t, json.Unmarshal([]byte(`{"accountName":"Acme","date":"2024-01-01"}`), &missing))
	assert.True(t, missing.AmountDue.IsZero())
	assert.True(t, missing.AmountReceived.IsZero())
}

func TestLedgerEntryRejectsBadAmount(t *testing.T) {
	var e LedgerEntry
	err := json.Unmarshal([]byte(`{"accountName":"Acme","amountDue":"abc","date":"2024-01-01"}`), &e)
	assert.ErrorContains(t, err, "amountDue")

	err = json.Unmarshal([]byte(`{"accountName":"Acme","amountReceived":true,"date":"2024-01-01"}`), &e)
	assert.ErrorContains(t, err, "amountReceived")
}

func TestLedgerEntryNullDate(t *testing.T) {
	var e LedgerEntry
	require.NoError(t, json.Unmarshal([]byte(`{"accountName":"Acme","amountDue":1,"amountReceived":0,"date":null}`), &e))
	assert.True(t, e.Date.IsZero())
	assert.ErrorIs(t, e.Validate(), ErrInvalidEntry)
}

func TestValidate(t *testing.T) {
	ok := LedgerEntry{AccountName: "Acme", Date: NewDate(2024, time.January, 1)}
	assert.NoError(t, ok.Validate())

	blank := ok
	blank.AccountName = " \t"
	assert.ErrorIs(t, blank.Validate(), ErrInvalidEntry)

	noDate := ok
	noDate.Date = Date{}
	assert.ErrorIs(t, noDate.Validate(), ErrInvalidEntry)
}
