package hrmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/satriadw/hrm-portal/internal"
)

// Client is the single outbound surface to the HRM backend and the face
// recognition service. Every call is independent: no retries, no shared
// ordering, cancellation comes from the caller's context.
type Client struct {
	baseURL      string
	faceBaseURL  string
	photoBaseURL string
	timeout      time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
}

type Config struct {
	APIBaseURL     string
	FaceAPIBaseURL string
	PhotoBaseURL   string
	RequestTimeout time.Duration
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	faceBase := cfg.FaceAPIBaseURL
	if faceBase == "" {
		faceBase = cfg.APIBaseURL
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.APIBaseURL, "/"),
		faceBaseURL:  strings.TrimRight(faceBase, "/"),
		photoBaseURL: strings.TrimRight(cfg.PhotoBaseURL, "/"),
		timeout:      timeout,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

// PhotoURL builds the public URL of an employee or attendance photo from the
// filename the backend returned. Empty filenames yield an empty URL.
func (c *Client) PhotoURL(filename string) string {
	if filename == "" || c.photoBaseURL == "" {
		return ""
	}
	return c.photoBaseURL + "/" + url.PathEscape(filename)
}

// do performs one request against the backend, attaches the bearer token when
// present, and decodes the {data, message} envelope into out. A nil out
// discards the data field. 401 maps to internal.ErrSessionExpired so callers
// can trigger the forced logout flow.
func (c *Client) do(ctx context.Context, method, path, token string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return internal.NewInternalError("failed to marshal request body", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return internal.NewInternalError("failed to create request", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upstream request failed", "method", method, "path", path, "error", err)
		return internal.ErrUpstreamUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	return c.decode(resp, method, path, out)
}

func (c *Client) decode(resp *http.Response, method, path string, out interface{}) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return internal.ErrUpstreamUnavailable.WithCause(err)
	}

	var envelope Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil && resp.StatusCode < 300 {
			return internal.ErrUpstreamUnavailable.WithCause(
				fmt.Errorf("malformed envelope from %s %s: %w", method, path, err))
		}
	}

	// A 401 keeps the backend's message when one was sent: on the login
	// endpoint it is a rejected credential pair, not an expired session.
	if resp.StatusCode == http.StatusUnauthorized {
		if envelope.Message != "" {
			return internal.ErrSessionExpired.WithMessage(envelope.Message)
		}
		return internal.ErrSessionExpired
	}

	if resp.StatusCode >= 300 {
		message := envelope.Message
		if message == "" {
			message = fmt.Sprintf("HRM backend returned status %d", resp.StatusCode)
		}
		c.logger.Warn("upstream rejected request",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"message", envelope.Message)
		return internal.NewUpstreamError(message, internal.ErrCodeUpstreamRejected, nil)
	}

	// Absent data is an empty result, not an error.
	if out == nil || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return internal.ErrUpstreamUnavailable.WithCause(
			fmt.Errorf("malformed data from %s %s: %w", method, path, err))
	}

	return nil
}

func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

func (c *Client) post(ctx context.Context, path, token string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, token, body, out)
}

func (c *Client) put(ctx context.Context, path, token string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, token, body, out)
}

func (c *Client) delete(ctx context.Context, path, token string) error {
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}
