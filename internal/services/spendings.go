package services

import (
	"context"
	"fmt"
	"time"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
	"github.com/GregMSThompson/spendings-dashboard/internal/query"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

const maxPageLimit = 1000

// spendingsRoot is the prefix shared by every cached page of spendings.
var spendingsRoot = query.NewKey("spendings")

type spendingsClient interface {
	ListSpendings(ctx context.Context, page dto.SpendingPage) ([]models.Spending, error)
	CreateSpending(ctx context.Context, payload dto.CreateSpendingPayload) (*models.Spending, error)
}

type spendingService struct {
	client spendingsClient
	cache  *query.Cache[[]models.Spending]
}

func NewSpendingService(client spendingsClient, cache *query.Cache[[]models.Spending]) *spendingService {
	return &spendingService{client: client, cache: cache}
}

func SpendingsKey(page dto.SpendingPage) query.Key {
	return spendingsRoot.With(fmt.Sprintf("skip=%d", page.Skip), fmt.Sprintf("limit=%d", page.Limit))
}

func validatePage(page dto.SpendingPage) error {
	if page.Skip < 0 {
		return errs.NewValidationError("skip must not be negative")
	}
	if page.Limit < 1 || page.Limit > maxPageLimit {
		return errs.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", maxPageLimit))
	}
	return nil
}

func (s *spendingService) fetcher(page dto.SpendingPage) query.Fetcher[[]models.Spending] {
	return func(ctx context.Context) ([]models.Spending, error) {
		return s.client.ListSpendings(ctx, page)
	}
}

// List reads a page through the cache. When a refresh fails but earlier data
// is held, that data is returned with the failure in Error.
func (s *spendingService) List(ctx context.Context, page dto.SpendingPage) (dto.SpendingList, error) {
	if err := validatePage(page); err != nil {
		return dto.SpendingList{}, err
	}

	st := s.cache.Read(ctx, SpendingsKey(page), s.fetcher(page))
	if st.Err != nil && !st.HasData {
		return dto.SpendingList{}, st.Err
	}
	return toSpendingList(st), nil
}

// Watch streams the cache state of a page until the subscription is closed.
func (s *spendingService) Watch(ctx context.Context, page dto.SpendingPage, fn func(dto.SpendingList)) (*query.Subscription, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	return s.cache.Watch(ctx, SpendingsKey(page), s.fetcher(page), func(st query.State[[]models.Spending]) {
		fn(toSpendingList(st))
	}), nil
}

// Create validates the form locally, posts it, and invalidates every cached
// page so the next read includes the new record.
func (s *spendingService) Create(ctx context.Context, form dto.SpendingForm, loc *time.Location) (*models.Spending, error) {
	log := logger.FromContext(ctx)

	payload, err := ValidateSpendingForm(form, loc)
	if err != nil {
		return nil, err
	}

	var created *models.Spending
	err = s.cache.Mutate(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.client.CreateSpending(ctx, payload)
		return err
	}, query.MutateOptions{
		Invalidates: []query.Key{spendingsRoot},
		OnSuccess: func() {
			log.Info("spending created", "category", payload.Category, "date", payload.Date)
		},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func toSpendingList(st query.State[[]models.Spending]) dto.SpendingList {
	out := dto.SpendingList{Spendings: st.Data, IsLoading: st.IsLoading}
	if out.Spendings == nil {
		out.Spendings = []models.Spending{}
	}
	if st.Err != nil {
		out.Error = st.Err.Error()
	}
	return out
}
