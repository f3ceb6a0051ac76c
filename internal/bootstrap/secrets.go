package bootstrap

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	"github.com/GregMSThompson/spendings-dashboard/internal/config"
)

type secretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

func InitSecretManager(ctx context.Context) (*secretmanager.Client, error) {
	return secretmanager.NewClient(ctx)
}

// ResolveWebhookURLs fills webhook URLs that are configured as secret names
// instead of plain values. A URL set directly always wins.
func ResolveWebhookURLs(ctx context.Context, cfg *config.Config, secrets secretGetter) error {
	for _, s := range []struct {
		secret string
		target *string
	}{
		{cfg.WebhookSecret, &cfg.WebhookURL},
		{cfg.ImageWebhookSecret, &cfg.ImageWebhookURL},
	} {
		if s.secret == "" || *s.target != "" {
			continue
		}
		value, err := secrets.GetSecret(ctx, s.secret)
		if err != nil {
			return fmt.Errorf("resolve secret %s: %w", s.secret, err)
		}
		*s.target = value
	}
	return nil
}
