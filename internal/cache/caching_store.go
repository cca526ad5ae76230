package cache

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"blorders/internal/artwork"
	"blorders/internal/metrics"
)

// CachingStore answers repeated searches from a Store. Only hits are cached:
// artwork uploaded after a miss must be found on the next run.
type CachingStore struct {
	next    artwork.Store
	cache   Store
	maxAge  time.Duration
	metrics *metrics.Registry
	log     *zap.Logger
}

// NewCachingStore wraps next. maxAge <= 0 keeps entries forever. m and log may be nil.
func NewCachingStore(next artwork.Store, c Store, maxAge time.Duration, m *metrics.Registry, log *zap.Logger) *CachingStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachingStore{next: next, cache: c, maxAge: maxAge, metrics: m, log: log}
}

func (c *CachingStore) Search(ctx context.Context, folderID string, keywords []string, kind artwork.Kind) ([]artwork.File, error) {
	key := Key(folderID, keywords, kind)
	if e, ok := c.cache.Get(key); ok && c.fresh(e) {
		if c.metrics != nil {
			c.metrics.CacheHits.Inc()
		}
		return append([]artwork.File(nil), e.Files...), nil
	}
	files, err := c.next.Search(ctx, folderID, keywords, kind)
	if err != nil || len(files) == 0 {
		return files, err
	}
	if err := c.cache.Put(key, Entry{Files: files, StoredAt: NowUnix()}); err != nil {
		c.log.Warn("cache put failed", zap.String("key", key), zap.Error(err))
	}
	return files, nil
}

func (c *CachingStore) fresh(e Entry) bool {
	if c.maxAge <= 0 {
		return true
	}
	return NowUnix()-e.StoredAt < int64(c.maxAge/time.Second)
}

func (c *CachingStore) ListChildren(ctx context.Context, folderID string) ([]artwork.File, error) {
	return c.next.ListChildren(ctx, folderID)
}

func (c *CachingStore) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	return c.next.Fetch(ctx, fileID)
}

// Ping forwards to the wrapped store when it can ping.
func (c *CachingStore) Ping(ctx context.Context) error {
	if p, ok := c.next.(artwork.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
