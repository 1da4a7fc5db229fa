package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-entityform/pkg/schema"
)

// maxDocumentSize caps remote schema payloads.
const maxDocumentSize = 4 << 20

// Loader resolves schema documents from disk, an fs.FS, or the schema
// registry over HTTP.
type Loader struct {
	files   fs.FS
	client  *http.Client
	headers map[string]string
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from resolved options. HTTP stays disabled unless a
// client is supplied or the fallback is enabled.
func New(options schema.LoaderOptions) *Loader {
	var client *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if options.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		client = &clone
	case options.AllowHTTPFallback:
		client = &http.Client{Timeout: options.RequestTimeout}
	}

	headers := make(map[string]string, len(options.Headers))
	for name, value := range options.Headers {
		headers[name] = value
	}

	return &Loader{
		files:   options.FileSystem,
		client:  client,
		headers: headers,
	}
}

// Load fetches the raw payload behind src and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, fmt.Errorf("schema loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = l.readFile(src.Location())
	case schema.SourceKindFS:
		data, err = l.readFS(src.Location())
	case schema.SourceKindURL:
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return schema.Document{}, fmt.Errorf("schema loader: %s: %w", src.Location(), err)
	}
	return schema.NewDocument(src, data)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func (l *Loader) readFS(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("fs path is required")
	}
	if l.files == nil {
		return nil, fmt.Errorf("no fs configured")
	}
	return fs.ReadFile(l.files, name)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.client == nil {
		return nil, fmt.Errorf("http support disabled")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml")
	for name, value := range l.headers {
		req.Header.Set(name, value)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}

// Timeout reports the client timeout, zero when HTTP is disabled.
func (l *Loader) Timeout() time.Duration {
	if l.client == nil {
		return 0
	}
	return l.client.Timeout
}
