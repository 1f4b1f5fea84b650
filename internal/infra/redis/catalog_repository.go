package redis

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"quiz-battle-service/internal/catalog"
	"quiz-battle-service/internal/domain"
)

// CatalogRepository caches encoded catalog documents in Redis and falls back
// to a loader on cache miss.
// Documents are stored as: SET quiz:catalog:{catalogID} <json>
type CatalogRepository struct {
	client *redis.Client
	loader catalog.Loader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewCatalogRepository(client *redis.Client, loader catalog.Loader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	if c, ok := r.cached(ctx, catalogID); ok {
		return c, nil
	}

	result, err, _ := r.sf.Do(catalogID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if c, ok := r.cached(ctx, catalogID); ok {
			return c, nil
		}

		c, err := r.loader.LoadCatalog(ctx, catalogID)
		if err != nil {
			return domain.Catalog{}, err
		}

		if data, err := catalog.Encode(c); err == nil {
			// best-effort: a failed write only costs a reload
			_ = r.client.Set(ctx, r.key(catalogID), data, r.ttlWithJitter()).Err()
		}
		return c, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

// Invalidate drops the cached document so the next read reloads it.
func (r *CatalogRepository) Invalidate(ctx context.Context, catalogID string) error {
	return r.client.Del(ctx, r.key(catalogID)).Err()
}

// cached treats unreadable entries as misses.
func (r *CatalogRepository) cached(ctx context.Context, catalogID string) (domain.Catalog, bool) {
	data, err := r.client.Get(ctx, r.key(catalogID)).Bytes()
	if err != nil {
		return domain.Catalog{}, false
	}
	c, err := catalog.ParseJSON(data)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedCatalog) {
			_ = r.client.Del(ctx, r.key(catalogID)).Err()
		}
		return domain.Catalog{}, false
	}
	return c, true
}

func (r *CatalogRepository) key(catalogID string) string {
	return "quiz:catalog:" + catalogID
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
