// Package gateway is the REST client of the booking backend.  It is the only
// package that speaks HTTP to the backend; callers see typed results,
// *StatusError for rejected requests and *apperr.Error for auth and network
// failures.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/iliyamo/hotel-booking-web/internal/apperr"
)

const maxResponseBytes = 4 << 20

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. "http://127.0.0.1:9000/api".
	BaseURL string
	// Timeout bounds each request when HTTPClient is nil.
	Timeout time.Duration
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
	Logger     *slog.Logger
	// OnUnauthorized runs whenever the backend answers 401.  It receives the
	// request context, which carries the browser's session id.
	OnUnauthorized func(ctx context.Context)
}

// Client calls the backend.  It is safe for concurrent use.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *slog.Logger
	onUnauthorized func(ctx context.Context)
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("gateway: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("gateway: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     hc,
		logger:         logger.With("component", "gateway"),
		onUnauthorized: cfg.OnUnauthorized,
	}, nil
}

// SetUnauthorizedHook replaces the 401 hook.  It must be called before the
// client is shared.
func (c *Client) SetUnauthorizedHook(fn func(ctx context.Context)) { c.onUnauthorized = fn }

// do performs one request and returns the raw 2xx body.
func (c *Client) do(ctx context.Context, method, path, token string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("gateway: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable", "method", method, "path", path, "err", err)
		return nil, apperr.Network("backend unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperr.Network("reading backend response", err)
	}
	c.logger.Debug("backend call", "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	msg := errorMessage(raw)
	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		if msg == "" {
			msg = "session expired, please log in again"
		}
		return nil, apperr.Auth(msg, &StatusError{StatusCode: resp.StatusCode, Message: msg, Method: method, Path: path})
	}
	return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg, Method: method, Path: path}
}

// call performs a request and decodes the value found under key (see
// extract) into out.  out may be nil.
func (c *Client) call(ctx context.Context, method, path, token string, in any, key string, out any) error {
	raw, err := c.do(ctx, method, path, token, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	payload := extract(raw, key)
	if len(payload) == 0 || isNull(payload) {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("gateway: decode %s %s: %w", method, path, err)
	}
	return nil
}

// list decodes a collection.  The backend answers with a bare array, with
// {"<key>": [...]} or with either of those wrapped in {"data": ...}.
func (c *Client) list(ctx context.Context, path, token, key string, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	payload := extract(raw, key)
	if len(payload) == 0 || payload[0] != '[' {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("gateway: decode GET %s: %w", path, err)
	}
	return nil
}

// extract unwraps up to two levels of {"data": ...} envelopes and returns
// the value under key when present.
func extract(body []byte, key string) json.RawMessage {
	raw := json.RawMessage(bytes.TrimSpace(body))
	for depth := 0; depth < 3; depth++ {
		if len(raw) == 0 || raw[0] != '{' {
			return raw
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return raw
		}
		if key != "" {
			if v, ok := obj[key]; ok && !isNull(v) {
				return v
			}
		}
		v, ok := obj["data"]
		if !ok || isNull(v) {
			return raw
		}
		raw = bytes.TrimSpace(v)
	}
	return raw
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func idPath(format string, ids ...uint64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

func decode(payload []byte, out any) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("gateway: decode: %w", err)
	}
	return nil
}
