package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/spendings-dashboard/internal/models"
)

// DayGroup is one date header of the history list, or the selected day of the calendar.
type DayGroup struct {
	Date      string            `json:"date"` // YYYY-MM-DD, viewer's calendar
	Total     decimal.Decimal   `json:"total"`
	Spendings []models.Spending `json:"spendings"`
}

// CalendarMonth is a month grid. LeadingBlanks is the number of empty cells
// before the 1st when weeks start on Sunday.
type CalendarMonth struct {
	Year          int           `json:"year"`
	Month         int           `json:"month"`
	Label         string        `json:"label"`
	LeadingBlanks int           `json:"leadingBlanks"`
	Days          []CalendarDay `json:"days"`
	Prev          string        `json:"prev"` // YYYY-MM
	Next          string        `json:"next"` // YYYY-MM
}

type CalendarDay struct {
	Day    int    `json:"day"`
	Date   string `json:"date"`
	Marked bool   `json:"marked"`
}

type MonthSummary struct {
	Month           string           `json:"month"` // YYYY-MM
	Total           decimal.Decimal  `json:"total"`
	Count           int              `json:"count"`
	LastTransaction *models.Spending `json:"lastTransaction,omitempty"`
}
