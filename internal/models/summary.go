package models

import "github.com/shopspring/decimal"

// Summary is the aggregate of all entries sharing one account name.
type Summary struct {
	AccountName   string          `json:"accountName"`
	TotalDue      decimal.Decimal `json:"totalDue"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
	Balance       decimal.Decimal `json:"balance"` // TotalDue - TotalReceived
}
