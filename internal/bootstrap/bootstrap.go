package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/spendings-dashboard/internal/config"
	"github.com/GregMSThompson/spendings-dashboard/internal/store"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

// Bootstrap holds the process-wide clients. Firestore and Secrets are nil
// when no Google Cloud project is configured; Firebase is nil when the
// identity service could not be reached at startup.
type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	Secrets   *secretmanager.Client
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.ForFormat(cfg.LogFormat))
	slog.SetDefault(bs.Log)

	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		bs.Log.Warn("firebase auth unavailable, sign-in disabled", "error", err)
		bs.Firebase = nil
	}

	if cfg.ProjectID == "" {
		bs.Log.Info("no PROJECTID, chat transcript kept in memory")
		return bs, nil
	}

	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID, cfg.FirestoreDatabase)
	if err != nil {
		return bs, err
	}

	if cfg.WebhookSecret != "" || cfg.ImageWebhookSecret != "" {
		bs.Secrets, err = InitSecretManager(applicationCtx)
		if err != nil {
			return bs, err
		}
		secrets := store.NewSecretStore(bs.Secrets, cfg.ProjectID)
		if err := ResolveWebhookURLs(applicationCtx, cfg, secrets); err != nil {
			return bs, err
		}
	}

	return bs, nil
}

// Close releases the Google Cloud clients.
func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("closing firestore", "error", err)
		}
	}
	if bs.Secrets != nil {
		if err := bs.Secrets.Close(); err != nil {
			bs.Log.Warn("closing secret manager", "error", err)
		}
	}
}
