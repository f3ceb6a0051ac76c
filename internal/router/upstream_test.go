package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apiclient "github.com/GregMSThompson/spendings-dashboard/internal/client/api"
	spendingsclient "github.com/GregMSThompson/spendings-dashboard/internal/client/spendings"
	"github.com/GregMSThompson/spendings-dashboard/internal/config"
	"github.com/GregMSThompson/spendings-dashboard/internal/handlers"
	"github.com/GregMSThompson/spendings-dashboard/internal/middleware"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
	"github.com/GregMSThompson/spendings-dashboard/internal/query"
	"github.com/GregMSThompson/spendings-dashboard/internal/response"
	"github.com/GregMSThompson/spendings-dashboard/internal/services"
	"github.com/GregMSThompson/spendings-dashboard/pkg/helpers"
)

// newServiceStack serves the real router backed by the real spendings
// service and API client, pointed at apiBase.
func newServiceStack(t *testing.T, apiBase string) *httptest.Server {
	t.Helper()
	log := helpers.TestLogger()

	srv := httptest.NewUnstartedServer(nil)
	origin := "http://" + srv.Listener.Addr().String()

	api := apiclient.NewClient("spendings-api", apiBase, origin, nil)
	cache := query.New[[]models.Spending]("spendings", log, query.Options{})
	deps := &handlers.Deps{
		Log:             log,
		ResponseHandler: response.New(log),
		Sessions:        fakeSessions{},
		SpendingSvc:     services.NewSpendingService(spendingsclient.NewAdapter(api), cache),
	}
	srv.Config.Handler = NewRouter(deps, Options{Location: time.UTC})
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

func TestSpendingsReachUpstreamAPI(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/spendings" || r.URL.Query().Get("limit") != "100" {
			t.Errorf("unexpected upstream request %s", r.URL.String())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"s1","amount":12.5,"category":"Food","description":"lunch","date":"2025-01-15T12:00:00Z"}]`))
	}))
	defer backend.Close()

	srv := newServiceStack(t, backend.URL)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/spendings", nil)
	req.Header.Set(middleware.SessionHeader, "good")
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Spendings []models.Spending `json:"spendings"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.StatusCode != http.StatusOK || len(body.Data.Spendings) != 1 || body.Data.Spendings[0].ID != "s1" {
		t.Fatalf("unexpected response %d %+v", res.StatusCode, body)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", calls.Load())
	}
}

// Without APIBASEURL the client falls back to this service's own origin,
// where /spendings needs a session the outbound call does not carry.
func TestSameOriginFallbackIsRejected(t *testing.T) {
	srv := newServiceStack(t, "")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/spendings", nil)
	req.Header.Set(middleware.SessionHeader, "good")
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected the self call to be refused upstream, got %d", res.StatusCode)
	}

	cfg := &config.Config{
		Port:           "8080",
		PublicOrigin:   srv.URL,
		PromptEncoding: "json",
		LogFormat:      "cloudrun",
		Timezone:       "UTC",
		CacheStaleTime: time.Minute,
		CacheGCTime:    time.Minute,
		FetchTimeout:   time.Second,
		SessionTTL:     time.Hour,
	}
	for _, base := range []string{"", srv.URL, srv.URL + "/"} {
		cfg.APIBaseURL = base
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "APIBASEURL") {
			t.Fatalf("APIBASEURL %q: expected configuration to be rejected, got %v", base, err)
		}
	}
}
