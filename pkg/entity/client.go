package entity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-entityform/internal/httpx"
)

// APIError is a non-2xx response from the persistence API.
type APIError = httpx.Error

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

// Client reads and writes entity resources.
type Client struct {
	api *httpx.Client
}

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
		return nil, fmt.Errorf("entity: %w", err)
	}
	return &Client{api: api}, nil
}

type writeBody struct {
	Metadata writeMeta      `json:"metadata"`
	Spec     map[string]any `json:"spec"`
}

type writeMeta struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
}

// List returns resource summaries. Empty filters match everything.
func (c *Client) List(ctx context.Context, kind, namespace string) (List, error) {
	query := url.Values{}
	if kind != "" {
		query.Set("kind", kind)
	}
	if namespace != "" {
		query.Set("namespace", namespace)
	}
	var out List
	if err := c.api.Do(ctx, http.MethodGet, query, nil, &out, "entities"); err != nil {
		return List{}, fmt.Errorf("entity: list: %w", err)
	}
	return out, nil
}

// Namespaces lists the namespaces resources can be created in.
func (c *Client) Namespaces(ctx context.Context) ([]Namespace, error) {
	var out struct {
		Namespaces []Namespace `json:"namespaces"`
	}
	if err := c.api.Do(ctx, http.MethodGet, nil, nil, &out, "namespaces"); err != nil {
		return nil, fmt.Errorf("entity: list namespaces: %w", err)
	}
	return out.Namespaces, nil
}

// Get fetches one resource.
func (c *Client) Get(ctx context.Context, kind, namespace, name string) (Resource, error) {
	if err := checkTarget(kind, namespace); err != nil {
		return Resource{}, err
	}
	var out Resource
	if err := c.api.Do(ctx, http.MethodGet, nil, nil, &out, "entities", kind, namespace, name); err != nil {
		return Resource{}, fmt.Errorf("entity: get %s/%s/%s: %w", kind, namespace, name, err)
	}
	return out, nil
}

// Create stores a new resource. name must already be normalized.
func (c *Client) Create(ctx context.Context, kind, namespace, name string, spec map[string]any) (Resource, error) {
	if err := checkTarget(kind, namespace); err != nil {
		return Resource{}, err
	}
	if err := ValidateName(name); err != nil {
		return Resource{}, err
	}
	body := writeBody{Metadata: writeMeta{Name: name, Namespace: namespace}, Spec: nonNil(spec)}
	var out Resource
	if err := c.api.Do(ctx, http.MethodPost, nil, body, &out, "entities", kind, namespace); err != nil {
		return Resource{}, fmt.Errorf("entity: create %s/%s/%s: %w", kind, namespace, name, err)
	}
	return out, nil
}

// Update replaces the spec of an existing resource.
func (c *Client) Update(ctx context.Context, kind, namespace, name string, spec map[string]any) (Resource, error) {
	if err := checkTarget(kind, namespace); err != nil {
		return Resource{}, err
	}
	if err := ValidateName(name); err != nil {
		return Resource{}, err
	}
	body := writeBody{Metadata: writeMeta{Name: name, Namespace: namespace}, Spec: nonNil(spec)}
	var out Resource
	if err := c.api.Do(ctx, http.MethodPut, nil, body, &out, "entities", kind, namespace, name); err != nil {
		return Resource{}, fmt.Errorf("entity: update %s/%s/%s: %w", kind, namespace, name, err)
	}
	return out, nil
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, kind, namespace, name string) error {
	if err := checkTarget(kind, namespace); err != nil {
		return err
	}
	if err := c.api.Do(ctx, http.MethodDelete, nil, nil, nil, "entities", kind, namespace, name); err != nil {
		return fmt.Errorf("entity: delete %s/%s/%s: %w", kind, namespace, name, err)
	}
	return nil
}

func checkTarget(kind, namespace string) error {
	if kind == "" {
		return errors.New("entity: kind is required")
	}
	if namespace == "" {
		return errors.New("entity: namespace is required")
	}
	return nil
}

func nonNil(spec map[string]any) map[string]any {
	if spec == nil {
		return map[string]any{}
	}
	return spec
}
