package registry

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-entityform/pkg/schema"
)

// Cache memoizes a Source per kind. Concurrent callers for the same kind
// share one fetch, which is detached from any single caller's cancellation:
// each caller stops waiting when its own context ends. Failed fetches are not
// kept. Returned schemas are shared
// between callers and must be treated as read only.
type Cache struct {
	source  Source
	logger  zerolog.Logger
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	done  chan struct{}
	value schema.EntitySchema
	err   error
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheLogger sets the logger used for fetch events.
func WithCacheLogger(logger zerolog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache wraps source.
func NewCache(source Source, opts ...CacheOption) *Cache {
	c := &Cache{
		source:  source,
		logger:  zerolog.Nop(),
		entries: make(map[string]*cacheEntry),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var _ Source = (*Cache)(nil)

// Schema returns the cached schema of kind, fetching it on first use.
func (c *Cache) Schema(ctx context.Context, kind string) (schema.EntitySchema, error) {
	c.mu.Lock()
	entry, ok := c.entries[kind]
	if !ok {
		entry = &cacheEntry{done: make(chan struct{})}
		c.entries[kind] = entry
	}
	c.mu.Unlock()

	if !ok {
		go c.fill(context.WithoutCancel(ctx), kind, entry)
	}

	select {
	case <-entry.done:
		return entry.value, entry.err
	case <-ctx.Done():
		return schema.EntitySchema{}, ctx.Err()
	}
}

func (c *Cache) fill(ctx context.Context, kind string, entry *cacheEntry) {
	defer close(entry.done)
	entry.value, entry.err = c.source.Schema(ctx, kind)
	if entry.err != nil {
		c.logger.Warn().Err(entry.err).Str("kind", kind).Msg("schema fetch failed")
		c.mu.Lock()
		if c.entries[kind] == entry {
			delete(c.entries, kind)
		}
		c.mu.Unlock()
		return
	}
	c.logger.Debug().Str("kind", kind).Msg("schema cached")
}

// Invalidate drops kind so the next call fetches it again.
func (c *Cache) Invalidate(kind string) {
	c.mu.Lock()
	delete(c.entries, kind)
	c.mu.Unlock()
}

// Len reports the number of cached or in-flight kinds.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
