package services

import (
	"context"
	"time"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
	"github.com/GregMSThompson/spendings-dashboard/internal/projection"
)

type spendingLister interface {
	List(ctx context.Context, page dto.SpendingPage) (dto.SpendingList, error)
}

// dashboardService builds the history, day, calendar and summary views from
// the same cached page the spendings list uses.
type dashboardService struct {
	spendings spendingLister
	clockNow  func() time.Time
}

func NewDashboardService(spendings spendingLister) *dashboardService {
	return &dashboardService{spendings: spendings, clockNow: time.Now}
}

func (s *dashboardService) load(ctx context.Context) ([]models.Spending, error) {
	list, err := s.spendings.List(ctx, dto.DefaultSpendingPage)
	if err != nil {
		return nil, err
	}
	return list.Spendings, nil
}

func (s *dashboardService) History(ctx context.Context, loc *time.Location) ([]dto.DayGroup, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return projection.GroupByDay(records, loc), nil
}

// Day lists one local day. An empty day means today in loc.
func (s *dashboardService) Day(ctx context.Context, day string, loc *time.Location) (dto.DayGroup, error) {
	if day != "" {
		if _, err := time.Parse("2006-01-02", day); err != nil {
			return dto.DayGroup{}, errs.NewValidationError("date must look like YYYY-MM-DD")
		}
	}
	records, err := s.load(ctx)
	if err != nil {
		return dto.DayGroup{}, err
	}
	if day == "" {
		day = s.clockNow().In(loc).Format("2006-01-02")
	}
	return projection.FilterByDay(records, day, loc), nil
}

func (s *dashboardService) Calendar(ctx context.Context, month string, loc *time.Location) (dto.CalendarMonth, error) {
	year, m, err := projection.ParseMonth(month, s.clockNow(), loc)
	if err != nil {
		return dto.CalendarMonth{}, err
	}
	records, err := s.load(ctx)
	if err != nil {
		return dto.CalendarMonth{}, err
	}
	return projection.CalendarMonth(records, year, m, loc), nil
}

func (s *dashboardService) Summary(ctx context.Context, loc *time.Location) (dto.MonthSummary, error) {
	records, err := s.load(ctx)
	if err != nil {
		return dto.MonthSummary{}, err
	}
	return projection.Summary(records, s.clockNow(), loc), nil
}
