package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/GregMSThompson/spendings-dashboard/internal/bootstrap"
	apiclient "github.com/GregMSThompson/spendings-dashboard/internal/client/api"
	spendingsclient "github.com/GregMSThompson/spendings-dashboard/internal/client/spendings"
	webhookclient "github.com/GregMSThompson/spendings-dashboard/internal/client/webhook"
	"github.com/GregMSThompson/spendings-dashboard/internal/config"
	"github.com/GregMSThompson/spendings-dashboard/internal/handlers"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
	"github.com/GregMSThompson/spendings-dashboard/internal/query"
	"github.com/GregMSThompson/spendings-dashboard/internal/response"
	"github.com/GregMSThompson/spendings-dashboard/internal/router"
	"github.com/GregMSThompson/spendings-dashboard/internal/services"
	"github.com/GregMSThompson/spendings-dashboard/internal/session"
	"github.com/GregMSThompson/spendings-dashboard/internal/store"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

const (
	janitorInterval = time.Minute
	shutdownTimeout = 10 * time.Second
)

type chatStore interface {
	SaveMessage(ctx context.Context, uid string, msg models.ChatMessage) (models.ChatMessage, error)
	ListMessages(ctx context.Context, uid string, limit int) ([]models.ChatMessage, error)
	ClearMessages(ctx context.Context, uid string) error
}

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// config
	cfg := config.New()
	exitOnError("invalid configuration", cfg.Validate(), logger.New(cfg.LogLevel, logger.ForFormat(cfg.LogFormat)))

	// bootstrap
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// clients
	api := apiclient.NewClient("spendings-api", cfg.APIBaseURL, cfg.PublicOrigin, nil)
	spendings := spendingsclient.NewAdapter(api)
	webhook := webhookclient.NewAdapter(webhookclient.Config{
		PromptURL: cfg.WebhookURL,
		ImageURL:  cfg.ImageWebhookURL,
		Encoding:  webhookclient.Encoding(cfg.PromptEncoding),
	}, nil)

	// stores
	var chats chatStore = store.NewMemoryChatStore()
	if bs.Firestore != nil {
		chats = store.NewChatStore(bs.Firestore)
	}

	// cache
	spendingsCache := query.New[[]models.Spending]("spendings", bs.Log, query.Options{
		StaleTime:    cfg.CacheStaleTime,
		GCTime:       cfg.CacheGCTime,
		FetchTimeout: cfg.FetchTimeout,
	})

	// sessions
	sessions := session.NewManager(nil, cfg.SessionTTL)
	if bs.Firebase != nil {
		sessions = session.NewManager(bs.Firebase, cfg.SessionTTL)
	}

	janitor := query.NewJanitor(bs.Log, spendingsCache, sessions)
	janitor.Start(janitorInterval)
	defer janitor.Stop()

	// services
	spserv := services.NewSpendingService(spendings, spendingsCache)
	daserv := services.NewDashboardService(spserv)
	asserv := services.NewAssistantService(webhook, chats)
	scserv := services.NewScanService(webhook)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Sessions = sessions
	deps.SpendingSvc = spserv
	deps.DashboardSvc = daserv
	deps.AssistantSvc = asserv
	deps.ScanSvc = scserv
	deps.SecureCookies = strings.HasPrefix(cfg.PublicOrigin, "https://")

	// router
	r := router.NewRouter(deps, router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Location:       cfg.Location(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		bs.Log.Info("server listening", "addr", srv.Addr, "api_base_url", api.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			bs.Log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	bs.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		bs.Log.Error("graceful shutdown failed", "error", err)
	}
}
