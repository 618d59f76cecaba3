// Package apiclient talks to the shop REST backend. It attaches bearer
// credentials, classifies failures into apperr kinds and normalises list
// envelopes so callers never branch on response shape.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
)

const maxBody = 4 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: otelhttp.NewTransport(&http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			}),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Token is sent as a bearer credential when non-empty.
	Token          string
	Body           any
	RequestID      string
	IdempotencyKey string
}

// Do sends r and decodes a 2xx JSON body into out (when out is non-nil).
// Non-2xx answers become *apperr.Error: 401 is ErrAuthExpired, any other
// status ErrRejected with the server's message. Transport and decode
// failures are ErrUnavailable.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	l := logging.FromContext(ctx)

	var body io.Reader
	if r.Body != nil {
		raw, err := json.Marshal(r.Body)
		if err != nil {
			return apperr.Unavailable(fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	if r.RequestID != "" {
		req.Header.Set("X-Request-ID", r.RequestID)
	}
	if r.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", r.IdempotencyKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn("api_request_failed", "method", r.Method, "path", r.Path, "error", err)
		return apperr.Unavailable(fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("read response: %w", err))
	}
	l.Debug("api_request",
		"method", r.Method,
		"path", r.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		e := apperr.AuthExpired(resp.StatusCode)
		e.Message = ErrorMessage(raw)
		return e
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return apperr.Rejected(resp.StatusCode, ErrorMessage(raw))
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Unavailable(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// GetList fetches a list endpoint and normalises its envelope. fields
// names the domain-specific array keys the endpoint may use.
func GetList[T any](ctx context.Context, c *Client, path, token string, fields ...string) ([]T, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Token: token}, &raw); err != nil {
		return nil, err
	}
	items, err := DecodeList[T](raw, fields...)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return items, nil
}
