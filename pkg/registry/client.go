package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-entityform/internal/httpx"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// ErrUnknownKind is returned when a kind has no schema.
var ErrUnknownKind = errors.New("registry: unknown entity kind")

// Source yields the entity schema of a kind.
type Source interface {
	Schema(ctx context.Context, kind string) (schema.EntitySchema, error)
}

// Listing is the entity-types response.
type Listing struct {
	EntityTypes []EntityType            `json:"entityTypes"`
	Categories  map[string][]EntityType `json:"categories"`
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	timeout    time.Duration
	headers    map[string]string
	logger     *zerolog.Logger
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpClient = client
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *clientConfig) {
		cfg.timeout = timeout
	}
}

// WithHeader adds a header to every request.
func WithHeader(name, value string) Option {
	return func(cfg *clientConfig) {
		if cfg.headers == nil {
			cfg.headers = make(map[string]string)
		}
		cfg.headers[name] = value
	}
}

// WithLogger sets the logger used for request events.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *clientConfig) {
		cfg.logger = &logger
	}
}

// Client reads entity types and schemas from the schema registry API.
type Client struct {
	api *httpx.Client
}

var _ Source = (*Client)(nil)

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	cfg := clientConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	api, err := httpx.New(baseURL, httpx.Options{
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		Headers:    cfg.headers,
		Logger:     cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return &Client{api: api}, nil
}

// EntityTypes lists the kinds the registry serves.
func (c *Client) EntityTypes(ctx context.Context) (Listing, error) {
	var listing Listing
	if err := c.api.Do(ctx, http.MethodGet, nil, nil, &listing, "entity-types"); err != nil {
		return Listing{}, fmt.Errorf("registry: list entity types: %w", err)
	}
	if listing.Categories == nil {
		listing.Categories = ByCategory(listing.EntityTypes)
	}
	return listing, nil
}

// Schema fetches the spec schema of kind. A 404 maps to ErrUnknownKind.
func (c *Client) Schema(ctx context.Context, kind string) (schema.EntitySchema, error) {
	var out schema.EntitySchema
	err := c.api.Do(ctx, http.MethodGet, nil, nil, &out, "entity-types", kind, "schema")
	if httpx.IsStatus(err, http.StatusNotFound) {
		return schema.EntitySchema{}, fmt.Errorf("%w: %s: %v", ErrUnknownKind, kind, err)
	}
	if err != nil {
		return schema.EntitySchema{}, fmt.Errorf("registry: schema %s: %w", kind, err)
	}
	if out.Schema == nil {
		return schema.EntitySchema{}, fmt.Errorf("registry: schema %s: response has no schema", kind)
	}
	if out.Kind == "" {
		out.Kind = kind
	}
	return out, nil
}
