package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

const maxBodyBytes = 10 << 20

// Options mirrors the knobs callers have on a single request.
type Options struct {
	Method  string
	Body    any
	Headers map[string]string
}

type Client struct {
	baseURL    string
	service    string
	httpClient *http.Client
}

// NewClient builds a JSON client. When baseURL is empty the service's own
// origin is used so that a same-origin deployment needs no configuration.
func NewClient(service, baseURL, origin string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    ResolveBaseURL(baseURL, origin),
		service:    service,
		httpClient: httpClient,
	}
}

func ResolveBaseURL(configured, origin string) string {
	base := strings.TrimSpace(configured)
	if base == "" {
		base = strings.TrimSpace(origin)
	}
	return strings.TrimRight(base, "/")
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request sends one call to endpoint (a path plus optional query) and decodes
// a 2xx JSON body into out. out may be nil.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options, out any) error {
	log := logger.FromContext(ctx)

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	url := c.baseURL + endpoint

	var body io.Reader
	if opts.Body != nil {
		raw, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, endpoint, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("api request failed", "service", c.service, "method", method, "endpoint", endpoint, "error", err)
		return errs.NewExternalServiceError(c.service, fmt.Sprintf("%s is unreachable", c.service), true, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return errs.NewExternalServiceError(c.service, fmt.Sprintf("failed reading %s response", c.service), true, err)
	}

	log.Debug("api request completed",
		"service", c.service,
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			data = nil
		}
		return errs.NewAPIError(resp.StatusCode, http.StatusText(resp.StatusCode), data)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errs.NewMalformedResponseError(c.service, fmt.Sprintf("%s returned an unexpected response", c.service), err)
	}
	return nil
}
