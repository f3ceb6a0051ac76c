package webhookclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

const (
	serviceName  = "webhook"
	maxBodyBytes = 10 << 20
)

// Encoding selects how a prompt is sent to the prompt webhook.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingForm Encoding = "form"
)

type Config struct {
	PromptURL string
	ImageURL  string
	Encoding  Encoding
}

type Adapter struct {
	promptURL  string
	imageURL   string
	encoding   Encoding
	httpClient *http.Client
}

func NewAdapter(cfg Config, httpClient *http.Client) *Adapter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	enc := cfg.Encoding
	if enc != EncodingForm {
		enc = EncodingJSON
	}
	return &Adapter{
		promptURL:  strings.TrimSpace(cfg.PromptURL),
		imageURL:   strings.TrimSpace(cfg.ImageURL),
		encoding:   enc,
		httpClient: httpClient,
	}
}

// SubmitPrompt sends a chat prompt and returns the unescaped "output" text.
func (a *Adapter) SubmitPrompt(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errs.NewValidationError("Prompt cannot be empty")
	}
	if a.promptURL == "" {
		return "", errs.NewConfigurationError("WEBHOOKURL", "Webhook URL is not configured")
	}

	var (
		body        io.Reader
		contentType string
	)
	switch a.encoding {
	case EncodingForm:
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)
		if err := mw.WriteField("prompt", prompt); err != nil {
			return "", fmt.Errorf("encode prompt: %w", err)
		}
		if err := mw.Close(); err != nil {
			return "", fmt.Errorf("encode prompt: %w", err)
		}
		body, contentType = buf, mw.FormDataContentType()
	default:
		raw, err := json.Marshal(dto.PromptRequest{Prompt: prompt})
		if err != nil {
			return "", fmt.Errorf("encode prompt: %w", err)
		}
		body, contentType = bytes.NewReader(raw), "application/json"
	}

	data, err := a.post(ctx, a.promptURL, body, contentType)
	if err != nil {
		return "", err
	}

	obj, ok := data.(map[string]any)
	if !ok || !present(obj[string(dto.ScanSourceOutput)]) {
		return "", errs.NewMalformedResponseError(serviceName, `Webhook response does not contain an "output" field`, nil)
	}
	return Unescape(render(obj[string(dto.ScanSourceOutput)])), nil
}

// SubmitImage uploads an image as multipart field "image" and extracts the
// most relevant text from whatever the webhook answers.
func (a *Adapter) SubmitImage(ctx context.Context, img dto.ImageUpload) (dto.ScanResult, error) {
	if a.imageURL == "" {
		return dto.ScanResult{}, errs.NewConfigurationError("IMAGEWEBHOOKURL", "Image webhook URL is not configured")
	}
	if img.Body == nil {
		return dto.ScanResult{}, errs.NewValidationError("Please select an image first")
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	filename := img.Filename
	if filename == "" {
		filename = "upload"
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return dto.ScanResult{}, fmt.Errorf("encode image: %w", err)
	}
	if _, err := io.Copy(part, img.Body); err != nil {
		return dto.ScanResult{}, fmt.Errorf("encode image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return dto.ScanResult{}, fmt.Errorf("encode image: %w", err)
	}

	data, err := a.post(ctx, a.imageURL, buf, mw.FormDataContentType())
	if err != nil {
		return dto.ScanResult{}, err
	}
	return ExtractScanResult(data), nil
}

func (a *Adapter) post(ctx context.Context, url string, body io.Reader, contentType string) (any, error) {
	log := logger.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, errs.NewConfigurationError("webhook", fmt.Sprintf("invalid webhook URL: %v", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		log.Warn("webhook request failed", "error", err)
		return nil, errs.NewExternalServiceError(serviceName, "webhook is unreachable", true, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.NewExternalServiceError(serviceName, "failed reading webhook response", true, err)
	}
	log.Debug("webhook request completed", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			data = nil
		}
		return nil, errs.NewAPIError(resp.StatusCode, http.StatusText(resp.StatusCode), data)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, errs.NewMalformedResponseError(serviceName, "Webhook returned a response that is not JSON", err)
	}
	return data, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
