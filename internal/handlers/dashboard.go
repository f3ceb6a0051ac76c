package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/middleware"
	"github.com/GregMSThompson/spendings-dashboard/internal/response"
)

type dashboardService interface {
	History(ctx context.Context, loc *time.Location) ([]dto.DayGroup, error)
	Day(ctx context.Context, day string, loc *time.Location) (dto.DayGroup, error)
	Calendar(ctx context.Context, month string, loc *time.Location) (dto.CalendarMonth, error)
	Summary(ctx context.Context, loc *time.Location) (dto.MonthSummary, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    dashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/history", h.History)
	r.Get("/day", h.Day)
	r.Get("/calendar", h.Calendar)
	r.Get("/summary", h.Summary)
	return r
}

func (h *dashboardHandlers) History(w http.ResponseWriter, r *http.Request) {
	groups, err := h.DashboardSvc.History(r.Context(), middleware.Location(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, groups)
}

// Day lists one calendar day; without ?date= it is the viewer's today.
func (h *dashboardHandlers) Day(w http.ResponseWriter, r *http.Request) {
	group, err := h.DashboardSvc.Day(r.Context(), r.URL.Query().Get("date"), middleware.Location(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, group)
}

func (h *dashboardHandlers) Calendar(w http.ResponseWriter, r *http.Request) {
	grid, err := h.DashboardSvc.Calendar(r.Context(), r.URL.Query().Get("month"), middleware.Location(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, grid)
}

func (h *dashboardHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.DashboardSvc.Summary(r.Context(), middleware.Location(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}
