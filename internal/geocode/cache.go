package geocode

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"caselog/internal/logger"
	"caselog/internal/models"
)

// CacheStore persists resolved coordinates across runs. *store.Store
// satisfies it.
type CacheStore interface {
	CachedLocation(ctx context.Context, key string) (*models.GeoPoint, error)
	StoreLocation(ctx context.Context, key string, point models.GeoPoint) error
}

const (
	memoryCacheSize = 512
	// Nominatim's usage policy allows one request per second.
	networkInterval = 1100 * time.Millisecond
)

// CachedGeocoder layers an in-memory LRU and the persistent cache in front
// of a network geocoder. A distinct city/state pair reaches the network at
// most once per run, and never again on later runs once persisted.
type CachedGeocoder struct {
	next   Geocoder
	store  CacheStore
	memory *expirable.LRU[string, models.GeoPoint]
	logger logger.Logger

	mu          sync.Mutex
	lastNetwork time.Time
	minInterval time.Duration
}

func NewCachedGeocoder(next Geocoder, store CacheStore, log logger.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		next:        next,
		store:       store,
		memory:      expirable.NewLRU[string, models.GeoPoint](memoryCacheSize, nil, 0),
		logger:      log,
		minInterval: networkInterval,
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, city, state string) (models.GeoPoint, error) {
	if strings.TrimSpace(city) == "" || strings.TrimSpace(state) == "" {
		return models.GeoPoint{}, ErrNotFound
	}
	key := models.LocationKey(city, state)

	if point, ok := c.memory.Get(key); ok {
		return point, nil
	}

	if point, err := c.store.CachedLocation(ctx, key); err != nil {
		c.logger.Warning("geocode cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	} else if point != nil {
		c.memory.Add(key, *point)
		c.logger.Debug("geocode cache hit", map[string]interface{}{"key": key})
		return *point, nil
	}

	point, err := c.networkLookup(ctx, city, state)
	if err != nil {
		return models.GeoPoint{}, err
	}

	c.memory.Add(key, point)
	if err := c.store.StoreLocation(ctx, key, point); err != nil {
		// The lookup succeeded; a failed cache write only costs a
		// repeat network call on a later run.
		c.logger.Warning("geocode cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return point, nil
}

// networkLookup serializes provider calls and spaces them out to honor the
// provider's rate limit. Cache hits never pass through here.
func (c *CachedGeocoder) networkLookup(ctx context.Context, city, state string) (models.GeoPoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := c.minInterval - time.Since(c.lastNetwork); wait > 0 {
		select {
		case <-ctx.Done():
			return models.GeoPoint{}, ctx.Err()
		case <-time.After(wait):
		}
	}
	c.lastNetwork = time.Now()

	return c.next.Geocode(ctx, city, state)
}
