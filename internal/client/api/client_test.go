package apiclient

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/pkg/helpers"
)

func TestResolveBaseURL(t *testing.T) {
	cases := []struct {
		configured, origin, want string
	}{
		{"https://api.example.com/", "http://localhost:8080", "https://api.example.com"},
		{"", "http://localhost:8080", "http://localhost:8080"},
		{"   ", "https://dash.example.com/", "https://dash.example.com"},
	}
	for _, tc := range cases {
		if got := ResolveBaseURL(tc.configured, tc.origin); got != tc.want {
			t.Fatalf("ResolveBaseURL(%q, %q) = %q, want %q", tc.configured, tc.origin, got, tc.want)
		}
	}
}

func TestRequestDecodesSuccessBody(t *testing.T) {
	var gotMethod, gotPath, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.RequestURI()
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer srv.Close()

	c := NewClient("spendings-api", srv.URL, "", srv.Client())

	var out struct {
		ID string `json:"id"`
	}
	err := c.Request(helpers.TestCtx(), "/spendings?skip=0", Options{
		Method: http.MethodPost,
		Body:   map[string]string{"category": "Food"},
	}, &out)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if out.ID != "abc" {
		t.Fatalf("decoded id mismatch: %q", out.ID)
	}
	if gotMethod != http.MethodPost || gotPath != "/spendings?skip=0" {
		t.Fatalf("unexpected request line: %s %s", gotMethod, gotPath)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type mismatch: %q", gotContentType)
	}
	if gotBody != `{"category":"Food"}` {
		t.Fatalf("body mismatch: %s", gotBody)
	}
}

func TestRequestHeadersOverrideDefaults(t *testing.T) {
	var gotContentType, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient("spendings-api", srv.URL, "", srv.Client())
	err := c.Request(helpers.TestCtx(), "/ping", Options{
		Headers: map[string]string{"Content-Type": "text/plain", "Authorization": "Bearer t"},
	}, nil)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if gotContentType != "text/plain" || gotAuth != "Bearer t" {
		t.Fatalf("headers not applied: %q %q", gotContentType, gotAuth)
	}
}

func TestRequestNon2xxCarriesStatusAndParsedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "amount must be > 0"})
	}))
	defer srv.Close()

	c := NewClient("spendings-api", srv.URL, "", srv.Client())
	err := c.Request(helpers.TestCtx(), "/spendings", Options{Method: http.MethodPost, Body: map[string]int{"amount": 0}}, nil)

	var apiErr *errs.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T (%v)", err, err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity {
		t.Fatalf("status mismatch: %d", apiErr.Status)
	}
	data, ok := apiErr.Data.(map[string]any)
	if !ok || data["detail"] != "amount must be > 0" {
		t.Fatalf("error data mismatch: %#v", apiErr.Data)
	}
}

func TestRequestNon2xxWithNonJSONBodyRecordsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<html>bad gateway</html>", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("spendings-api", srv.URL, "", srv.Client())
	err := c.Request(helpers.TestCtx(), "/spendings", Options{}, nil)

	var apiErr *errs.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Data != nil {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestRequestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient("spendings-api", url, "", nil)
	err := c.Request(helpers.TestCtx(), "/spendings", Options{}, nil)

	var extErr *errs.ExternalServiceError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExternalServiceError, got %T (%v)", err, err)
	}
	if !extErr.Transient {
		t.Fatalf("transport failures should be transient")
	}
}

func TestRequestMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	c := NewClient("spendings-api", srv.URL, "", srv.Client())
	var out []string
	err := c.Request(helpers.TestCtx(), "/spendings", Options{}, &out)

	var malformed *errs.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %T", err)
	}
}
