package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/spendings-dashboard/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Sessions        sessionService
	SpendingSvc     spendingService
	DashboardSvc    dashboardService
	AssistantSvc    assistantService
	ScanSvc         scanService

	// SecureCookies marks the session cookie Secure; set when served over https.
	SecureCookies bool
}
