package store

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
)

// Secrets path
// projects/{project}/secrets/{name}/versions/latest

type secretStore struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretStore(client *secretmanager.Client, projectID string) *secretStore {
	return &secretStore{client: client, projectID: projectID}
}

// secretName accepts a bare secret id or an already qualified resource name.
func (s *secretStore) secretName(name string) string {
	if strings.HasPrefix(name, "projects/") {
		return name
	}
	return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, name)
}

// GetSecret reads the latest version of a secret as text.
func (s *secretStore) GetSecret(ctx context.Context, name string) (string, error) {
	full := s.secretName(name)
	if !strings.Contains(full, "/versions/") {
		full += "/versions/latest"
	}
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: full})
	if status.Code(err) == codes.NotFound {
		return "", errs.NewNotFoundError(fmt.Sprintf("secret %s not found", name))
	}
	if err != nil {
		return "", errs.NewExternalServiceError("secretmanager", "failed to read secret", status.Code(err) == codes.Unavailable, err)
	}
	return strings.TrimSpace(string(res.Payload.Data)), nil
}

func (s *secretStore) Close() error {
	return s.client.Close()
}
