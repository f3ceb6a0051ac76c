package models

import "github.com/shopspring/decimal"

func init() {
	// The spendings service speaks plain JSON numbers for amounts.
	decimal.MarshalJSONWithoutQuotes = true
}

// Spending is a transaction record owned by the remote spendings service.
type Spending struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`       // ISO-8601, when it happened
	CreatedAt   string          `json:"created_at"` // ISO-8601, set by the backend
}
