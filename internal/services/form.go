package services

import (
	"strings"
	"time"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
)

const (
	formDateLayout = "2006-01-02"
	formTimeLayout = "15:04"
	// UTC ISO-8601 with milliseconds, e.g. 2025-01-15T20:30:00.000Z.
	wireTimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ValidateSpendingForm checks a submitted form and builds the payload for the
// spendings service. A bare date (plus optional HH:MM, default midnight) is a
// wall-clock time in loc and is sent as UTC; a full RFC 3339 date is sent as is.
func ValidateSpendingForm(form dto.SpendingForm, loc *time.Location) (dto.CreateSpendingPayload, error) {
	category := strings.TrimSpace(form.Category)
	description := strings.TrimSpace(form.Description)
	date := strings.TrimSpace(form.Date)

	if form.Amount == nil || category == "" || description == "" || date == "" {
		return dto.CreateSpendingPayload{}, errs.NewValidationError("Please fill in all required fields")
	}
	if !form.Amount.IsPositive() {
		return dto.CreateSpendingPayload{}, errs.NewValidationError("Amount must be a positive number")
	}

	when, err := composeDate(date, strings.TrimSpace(form.Time), loc)
	if err != nil {
		return dto.CreateSpendingPayload{}, err
	}

	return dto.CreateSpendingPayload{
		Amount:      *form.Amount,
		Category:    category,
		Description: description,
		Date:        when,
	}, nil
}

func composeDate(date, clock string, loc *time.Location) (string, error) {
	if _, err := time.Parse(time.RFC3339Nano, date); err == nil {
		return date, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if clock == "" {
		clock = "00:00"
	}
	day, err := time.ParseInLocation(formDateLayout, date, loc)
	if err != nil {
		return "", errs.NewValidationError("Date must look like YYYY-MM-DD")
	}
	hm, err := time.Parse(formTimeLayout, clock)
	if err != nil {
		return "", errs.NewValidationError("Time must look like HH:MM")
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, loc)
	return t.UTC().Format(wireTimestampLayout), nil
}
