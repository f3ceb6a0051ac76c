package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

type ErrorResponse struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeError(w, r, status, ErrorResponse{Code: code, Message: message})
}

func (h *responseHandler) writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", body.Code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var (
		notFound   *errs.NotFoundError
		validation *errs.ValidationError
		unauth     *errs.UnauthorizedError
		config     *errs.ConfigurationError
		apiErr     *errs.APIError
		malformed  *errs.MalformedResponseError
		external   *errs.ExternalServiceError
		database   *errs.DatabaseError
	)

	switch {
	case errors.As(err, &validation):
		log.Warn("validation failed", "error", validation.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", validation.Message)

	case errors.As(err, &unauth):
		log.Warn("unauthorized", "error", unauth.Message)
		h.WriteError(w, r, http.StatusUnauthorized, "unauthorized", unauth.Message)

	case errors.As(err, &notFound):
		log.Warn("resource not found", "error", notFound.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", notFound.Message)

	case errors.As(err, &config):
		log.Error("missing configuration", "setting", config.Setting, "error", config.Message)
		h.WriteError(w, r, http.StatusServiceUnavailable, "not_configured", config.Message)

	case errors.As(err, &apiErr):
		log.Warn("upstream rejected request",
			"status", apiErr.Status,
			"status_text", apiErr.StatusText,
			"data", apiErr.Data)
		h.writeError(w, r, http.StatusBadGateway, ErrorResponse{
			Code:           "upstream_error",
			Message:        apiErr.Message,
			UpstreamStatus: apiErr.Status,
		})

	case errors.As(err, &malformed):
		log.Error("malformed upstream response", "service", malformed.Service, "error", err)
		h.WriteError(w, r, http.StatusBadGateway, "bad_gateway", malformed.Message)

	case errors.As(err, &external):
		level := slog.LevelError
		if external.Transient {
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "external service error",
			"service", external.Service,
			"transient", external.Transient,
			"error", err)
		h.WriteError(w, r, http.StatusServiceUnavailable, "service_unavailable",
			"Service temporarily unavailable")

	case errors.As(err, &database):
		log.Error("database error",
			"operation", database.Operation,
			"error", err)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		log.Warn("request timed out", "error", err)
		h.WriteError(w, r, http.StatusGatewayTimeout, "timeout", "The request took too long")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
