package services

import (
	"context"
	"strings"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

// MaxImageBytes is the largest upload accepted for scanning.
const MaxImageBytes = 5 << 20

type imageClient interface {
	SubmitImage(ctx context.Context, img dto.ImageUpload) (dto.ScanResult, error)
}

type scanService struct {
	webhook imageClient
}

func NewScanService(webhook imageClient) *scanService {
	return &scanService{webhook: webhook}
}

// Scan forwards an image to the image webhook. Only image/* uploads are accepted.
func (s *scanService) Scan(ctx context.Context, img dto.ImageUpload) (dto.ScanResult, error) {
	if img.Body == nil {
		return dto.ScanResult{}, errs.NewValidationError("Please select an image first")
	}
	if !strings.HasPrefix(strings.ToLower(img.ContentType), "image/") {
		return dto.ScanResult{}, errs.NewValidationError("Please select a valid image file")
	}
	if img.Size > MaxImageBytes {
		return dto.ScanResult{}, errs.NewValidationError("Image size must be less than 5MB")
	}

	res, err := s.webhook.SubmitImage(ctx, img)
	if err != nil {
		return dto.ScanResult{}, err
	}
	logger.FromContext(ctx).Info("image scanned", "source", res.Source, "filename", img.Filename)
	return res, nil
}
