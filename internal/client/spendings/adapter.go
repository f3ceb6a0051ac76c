package spendingsclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	apiclient "github.com/GregMSThompson/spendings-dashboard/internal/client/api"
	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
)

type requester interface {
	Request(ctx context.Context, endpoint string, opts apiclient.Options, out any) error
}

// Adapter talks to the spendings service's /spendings resource.
type Adapter struct {
	api requester
}

func NewAdapter(api requester) *Adapter {
	return &Adapter{api: api}
}

func (a *Adapter) ListSpendings(ctx context.Context, page dto.SpendingPage) ([]models.Spending, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(page.Skip))
	q.Set("limit", strconv.Itoa(page.Limit))

	var out []models.Spending
	if err := a.api.Request(ctx, "/spendings?"+q.Encode(), apiclient.Options{}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Spending{}
	}
	return out, nil
}

// CreateSpending posts a new record. The created record is returned when the
// service echoes one back; a bodyless 2xx yields nil.
func (a *Adapter) CreateSpending(ctx context.Context, payload dto.CreateSpendingPayload) (*models.Spending, error) {
	var created *models.Spending
	err := a.api.Request(ctx, "/spendings", apiclient.Options{
		Method: http.MethodPost,
		Body:   payload,
	}, &created)
	if err != nil {
		return nil, fmt.Errorf("create spending: %w", err)
	}
	return created, nil
}
