package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/internal/response"
	"github.com/GregMSThompson/spendings-dashboard/internal/services"
)

// multipart framing allowance on top of the image itself
const scanFormOverhead = 1 << 20

type scanService interface {
	Scan(ctx context.Context, img dto.ImageUpload) (dto.ScanResult, error)
}

type scanHandlers struct {
	ResponseHandler response.ResponseHandler
	ScanSvc         scanService
}

func NewScanHandlers(deps *Deps) *scanHandlers {
	return &scanHandlers{
		ResponseHandler: deps.ResponseHandler,
		ScanSvc:         deps.ScanSvc,
	}
}

// Scan accepts a multipart form with one "image" file.
func (h *scanHandlers) Scan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageBytes+scanFormOverhead)

	var upload dto.ImageUpload
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		upload = dto.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	case errors.Is(err, http.ErrMissingFile):
		// the service rejects an upload without a body
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("Image size must be less than 5MB"))
			return
		}
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("expected a multipart form with an image"))
		return
	}

	res, err := h.ScanSvc.Scan(r.Context(), upload)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}
