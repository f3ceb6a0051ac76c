package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
)

const dateLayout = "2006-01-02"

// Timestamps without an offset are wall-clock times in the viewer's zone.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
}

// DayKey returns the viewer's calendar date (YYYY-MM-DD) for an ISO-8601
// value. Values with an offset are converted into loc; bare dates are taken
// as written. Anything unparseable falls back to the text before "T".
func DayKey(raw string, loc *time.Location) string {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc).Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, raw); err == nil {
		return raw
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.Format(dateLayout)
		}
	}
	if i := strings.Index(raw, "T"); i >= 0 {
		return raw[:i]
	}
	return raw
}

// ParseTimestamp reads an ISO-8601 value with the same rules as DayKey.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	for _, layout := range append([]string{dateLayout}, naiveLayouts...) {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GroupByDay buckets records by local date. Records keep their input order
// inside a group and groups are ordered newest date first.
func GroupByDay(spendings []models.Spending, loc *time.Location) []dto.DayGroup {
	index := map[string]int{}
	var groups []dto.DayGroup
	for _, s := range spendings {
		day := DayKey(s.Date, loc)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, dto.DayGroup{Date: day, Total: decimal.Zero})
		}
		groups[i].Spendings = append(groups[i].Spendings, s)
		groups[i].Total = groups[i].Total.Add(s.Amount)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Date > groups[b].Date
	})
	if groups == nil {
		groups = []dto.DayGroup{}
	}
	return groups
}

// FilterByDay keeps the records that fall on the same local date as day.
// day may be a bare date or a full timestamp.
func FilterByDay(spendings []models.Spending, day string, loc *time.Location) dto.DayGroup {
	target := DayKey(day, loc)
	out := dto.DayGroup{Date: target, Total: decimal.Zero, Spendings: []models.Spending{}}
	for _, s := range spendings {
		if DayKey(s.Date, loc) == target {
			out.Spendings = append(out.Spendings, s)
			out.Total = out.Total.Add(s.Amount)
		}
	}
	return out
}
