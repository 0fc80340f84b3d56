package explain

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

const narrativeTTL = time.Hour

// Cached wraps an Explainer with an in-process TTL cache so repeated
// scoring results do not trigger repeated model calls.
type Cached struct {
	inner Explainer
	cache *ristretto.Cache
}

// NewCached builds the caching layer around inner.
func NewCached(inner Explainer) (*Cached, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: cache}, nil
}

// Narrative returns the cached narrative for the payload, calling the
// wrapped explainer on a miss. Errors are never cached.
func (c *Cached) Narrative(ctx context.Context, payload Payload) (string, error) {
	key := payload.CacheKey()
	if v, ok := c.cache.Get(key); ok {
		if narrative, ok := v.(string); ok {
			return narrative, nil
		}
	}

	narrative, err := c.inner.Narrative(ctx, payload)
	if err != nil {
		return "", err
	}
	c.cache.SetWithTTL(key, narrative, int64(len(narrative))+1, narrativeTTL)
	return narrative, nil
}

// Close releases the cache's internal goroutines.
func (c *Cached) Close() {
	c.cache.Close()
}
