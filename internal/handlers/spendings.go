package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/internal/middleware"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
	"github.com/GregMSThompson/spendings-dashboard/internal/projection"
	"github.com/GregMSThompson/spendings-dashboard/internal/query"
	"github.com/GregMSThompson/spendings-dashboard/internal/response"
)

type spendingService interface {
	List(ctx context.Context, page dto.SpendingPage) (dto.SpendingList, error)
	Watch(ctx context.Context, page dto.SpendingPage, fn func(dto.SpendingList)) (*query.Subscription, error)
	Create(ctx context.Context, form dto.SpendingForm, loc *time.Location) (*models.Spending, error)
}

type spendingHandlers struct {
	ResponseHandler response.ResponseHandler
	SpendingSvc     spendingService
}

func NewSpendingHandlers(deps *Deps) *spendingHandlers {
	return &spendingHandlers{
		ResponseHandler: deps.ResponseHandler,
		SpendingSvc:     deps.SpendingSvc,
	}
}

func (h *spendingHandlers) SpendingRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/categories", h.Categories)
	r.Get("/stream", h.Stream)
	return r
}

func (h *spendingHandlers) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	list, err := h.SpendingSvc.List(r.Context(), page)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, list)
}

func (h *spendingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var form dto.SpendingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	created, err := h.SpendingSvc.Create(r.Context(), form, middleware.Location(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, created)
}

// Categories returns the add-transaction form options with their icons.
func (h *spendingHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, projection.Categories())
}

// pageFromQuery reads skip and limit, defaulting to the page every view loads.
func pageFromQuery(r *http.Request) (dto.SpendingPage, error) {
	page := dto.DefaultSpendingPage
	q := r.URL.Query()
	if raw := q.Get("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, errs.NewValidationError("skip must be a number")
		}
		page.Skip = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, errs.NewValidationError("limit must be a number")
		}
		page.Limit = n
	}
	return page, nil
}
