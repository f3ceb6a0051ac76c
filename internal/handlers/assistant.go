package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
	"github.com/GregMSThompson/spendings-dashboard/internal/response"
	"github.com/GregMSThompson/spendings-dashboard/internal/session"
)

type assistantService interface {
	Prompt(ctx context.Context, uid, prompt string) (dto.AssistantReply, error)
	Messages(ctx context.Context, uid string) ([]models.ChatMessage, error)
	Clear(ctx context.Context, uid string) error
}

type assistantHandlers struct {
	ResponseHandler response.ResponseHandler
	AssistantSvc    assistantService
}

func NewAssistantHandlers(deps *Deps) *assistantHandlers {
	return &assistantHandlers{
		ResponseHandler: deps.ResponseHandler,
		AssistantSvc:    deps.AssistantSvc,
	}
}

func (h *assistantHandlers) AssistantRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/prompt", h.Prompt)
	r.Get("/messages", h.Messages)
	r.Delete("/messages", h.Clear)
	return r
}

func (h *assistantHandlers) Prompt(w http.ResponseWriter, r *http.Request) {
	var body dto.PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	reply, err := h.AssistantSvc.Prompt(r.Context(), session.UID(r.Context()), body.Prompt)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, reply)
}

func (h *assistantHandlers) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.AssistantSvc.Messages(r.Context(), session.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, msgs)
}

func (h *assistantHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.AssistantSvc.Clear(r.Context(), session.UID(r.Context())); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
