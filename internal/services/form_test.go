package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/pkg/helpers"
)

var utcMinus5 = time.FixedZone("UTC-5", -5*60*60)

func amount(s string) *decimal.Decimal {
	return helpers.Ptr(decimal.RequireFromString(s))
}

func TestValidateSpendingFormRejections(t *testing.T) {
	full := dto.SpendingForm{Amount: amount("12.50"), Category: "Food", Description: "Lunch", Date: "2025-01-15"}

	cases := []struct {
		name string
		form func(dto.SpendingForm) dto.SpendingForm
		want string
	}{
		{"missing amount", func(f dto.SpendingForm) dto.SpendingForm { f.Amount = nil; return f }, "Please fill in all required fields"},
		{"missing category", func(f dto.SpendingForm) dto.SpendingForm { f.Category = " "; return f }, "Please fill in all required fields"},
		{"missing description", func(f dto.SpendingForm) dto.SpendingForm { f.Description = ""; return f }, "Please fill in all required fields"},
		{"missing date", func(f dto.SpendingForm) dto.SpendingForm { f.Date = ""; return f }, "Please fill in all required fields"},
		{"negative amount", func(f dto.SpendingForm) dto.SpendingForm { f.Amount = amount("-5"); return f }, "Amount must be a positive number"},
		{"zero amount", func(f dto.SpendingForm) dto.SpendingForm { f.Amount = amount("0"); return f }, "Amount must be a positive number"},
		{"bad date", func(f dto.SpendingForm) dto.SpendingForm { f.Date = "15/01/2025"; return f }, "Date must look like YYYY-MM-DD"},
		{"bad time", func(f dto.SpendingForm) dto.SpendingForm { f.Time = "3pm"; return f }, "Time must look like HH:MM"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateSpendingForm(tc.form(full), utcMinus5)
			var vErr *errs.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if vErr.Message != tc.want {
				t.Fatalf("message = %q, want %q", vErr.Message, tc.want)
			}
		})
	}
}

func TestValidateSpendingFormComposesUTCTimestamp(t *testing.T) {
	payload, err := ValidateSpendingForm(dto.SpendingForm{
		Amount:      amount("12.50"),
		Category:    " Food ",
		Description: "Lunch",
		Date:        "2025-01-15",
		Time:        "15:30",
	}, utcMinus5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Date != "2025-01-15T20:30:00.000Z" {
		t.Fatalf("date mismatch: %s", payload.Date)
	}
	if payload.Category != "Food" || !payload.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("payload mismatch: %+v", payload)
	}
}

func TestValidateSpendingFormDefaultsToMidnight(t *testing.T) {
	payload, err := ValidateSpendingForm(dto.SpendingForm{
		Amount: amount("1"), Category: "Bills", Description: "Power", Date: "2025-01-15",
	}, utcMinus5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Date != "2025-01-15T05:00:00.000Z" {
		t.Fatalf("date mismatch: %s", payload.Date)
	}
}

func TestValidateSpendingFormPassesThroughFullTimestamp(t *testing.T) {
	payload, err := ValidateSpendingForm(dto.SpendingForm{
		Amount: amount("1"), Category: "Bills", Description: "Power", Date: "2025-01-15T10:00:00+02:00", Time: "23:59",
	}, utcMinus5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Date != "2025-01-15T10:00:00+02:00" {
		t.Fatalf("full timestamp should pass through, got %s", payload.Date)
	}
}
