// Package httpx is the JSON transport shared by the registry and entity
// clients.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const maxBodySize = 4 << 20

// Error is a non-2xx response. Message is taken from the {"error": "..."}
// body when the server sends one, otherwise from the status text.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client issues JSON requests relative to a base URL.
type Client struct {
	base    *url.URL
	http    *http.Client
	headers http.Header
	logger  zerolog.Logger
}

// Options configure a Client.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Headers    map[string]string
	// Logger receives one debug event per request. Nil disables logging.
	Logger *zerolog.Logger
}

// New validates baseURL and builds a client. A zero Options value uses a
// client with a 10 second timeout and a no-op logger.
func New(baseURL string, opts Options) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("httpx: base url is required")
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("httpx: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("httpx: unsupported scheme %q", base.Scheme)
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	headers := make(http.Header, len(opts.Headers))
	for name, value := range opts.Headers {
		if name = strings.TrimSpace(name); name != "" {
			headers.Set(name, value)
		}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{base: base, http: client, headers: headers, logger: logger}, nil
}

// BaseURL returns the base the client resolves paths against.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Do sends body (JSON encoded when non-nil) to the path built from segments,
// which are escaped individually, and decodes the response into out when
// out is non-nil.
func (c *Client) Do(ctx context.Context, method string, query url.Values, body, out any, segments ...string) error {
	target := c.resolve(query, segments...)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpx: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("httpx: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("url", target).Msg("request failed")
		return fmt.Errorf("httpx: %s %s: %w", method, target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("httpx: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp, raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpx: decode response: %w", err)
	}
	return nil
}

func (c *Client) resolve(query url.Values, segments ...string) string {
	u := *c.base
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	u.RawPath = ""
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.Join(segments, "/")
	u.RawPath = strings.TrimRight(c.base.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func errorMessage(resp *http.Response, raw []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return payload.Error
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
