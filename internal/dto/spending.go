package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/spendings-dashboard/internal/models"
)

// SpendingForm is what the add-transaction form submits.
// Date is YYYY-MM-DD (or a full RFC 3339 timestamp); Time is an optional HH:MM.
type SpendingForm struct {
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	Time        string           `json:"time,omitempty"`
}

// CreateSpendingPayload is the body of POST /spendings on the spendings service.
type CreateSpendingPayload struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

type SpendingPage struct {
	Skip  int
	Limit int
}

// DefaultSpendingPage matches what every dashboard view loads.
var DefaultSpendingPage = SpendingPage{Skip: 0, Limit: 100}

type SpendingList struct {
	Spendings []models.Spending `json:"spendings"`
	IsLoading bool              `json:"isLoading"`
	Error     string            `json:"error,omitempty"`
}

type CategoryOption struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}
