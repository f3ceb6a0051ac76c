package projection

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
	"github.com/GregMSThompson/spendings-dashboard/pkg/helpers"
)

const monthLayout = "2006-01"

// ParseMonth reads a YYYY-MM value. An empty value means the month of now in loc.
func ParseMonth(raw string, now time.Time, loc *time.Location) (int, time.Month, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if loc == nil {
			loc = time.Local
		}
		local := now.In(loc)
		return local.Year(), local.Month(), nil
	}
	t, err := time.Parse(monthLayout, raw)
	if err != nil {
		return 0, 0, errs.NewValidationError("month must look like YYYY-MM")
	}
	return t.Year(), t.Month(), nil
}

func monthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// MonthTotal sums the records whose local date falls in year/month.
func MonthTotal(spendings []models.Spending, year int, month time.Month, loc *time.Location) decimal.Decimal {
	prefix := monthPrefix(year, month) + "-"
	total := decimal.Zero
	for _, s := range spendings {
		if strings.HasPrefix(DayKey(s.Date, loc), prefix) {
			total = total.Add(s.Amount)
		}
	}
	return total
}

// CalendarMonth lays out a Sunday-first month grid. A day is marked when at
// least one record falls on it.
func CalendarMonth(spendings []models.Spending, year int, month time.Month, loc *time.Location) dto.CalendarMonth {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysIn := first.AddDate(0, 1, -1).Day()

	marked := map[string]bool{}
	for _, s := range spendings {
		marked[DayKey(s.Date, loc)] = true
	}

	days := make([]dto.CalendarDay, 0, daysIn)
	for d := 1; d <= daysIn; d++ {
		date := fmt.Sprintf("%s-%02d", monthPrefix(year, month), d)
		days = append(days, dto.CalendarDay{Day: d, Date: date, Marked: marked[date]})
	}

	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)
	return dto.CalendarMonth{
		Year:          year,
		Month:         int(month),
		Label:         first.Format("January 2006"),
		LeadingBlanks: int(first.Weekday()),
		Days:          days,
		Prev:          prev.Format(monthLayout),
		Next:          next.Format(monthLayout),
	}
}

// Summary reports the month of now (in loc) and the most recently created record overall.
func Summary(spendings []models.Spending, now time.Time, loc *time.Location) dto.MonthSummary {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	prefix := monthPrefix(local.Year(), local.Month()) + "-"

	out := dto.MonthSummary{Month: monthPrefix(local.Year(), local.Month()), Total: decimal.Zero}
	var (
		last   *models.Spending
		lastAt time.Time
	)
	for i := range spendings {
		s := spendings[i]
		if strings.HasPrefix(DayKey(s.Date, loc), prefix) {
			out.Total = out.Total.Add(s.Amount)
			out.Count++
		}
		at, ok := ParseTimestamp(s.CreatedAt, loc)
		if !ok {
			continue
		}
		if last == nil || at.After(lastAt) {
			last, lastAt = &spendings[i], at
		}
	}
	if last != nil {
		out.LastTransaction = helpers.Ptr(*last)
	}
	return out
}
