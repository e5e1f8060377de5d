package geocode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caselog/internal/models"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warning(string, map[string]interface{})      {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

type fakeGeocoder struct {
	calls  int
	points map[string]models.GeoPoint
	err    error
}

func (f *fakeGeocoder) Geocode(_ context.Context, city, state string) (models.GeoPoint, error) {
	f.calls++
	if f.err != nil {
		return models.GeoPoint{}, f.err
	}
	point, ok := f.points[models.LocationKey(city, state)]
	if !ok {
		return models.GeoPoint{}, ErrNotFound
	}
	return point, nil
}

type fakeCacheStore struct {
	entries    map[string]models.GeoPoint
	reads      int
	failWrites bool
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{entries: make(map[string]models.GeoPoint)}
}

func (f *fakeCacheStore) CachedLocation(_ context.Context, key string) (*models.GeoPoint, error) {
	f.reads++
	point, ok := f.entries[key]
	if !ok {
		return nil, nil
	}
	return &point, nil
}

func (f *fakeCacheStore) StoreLocation(_ context.Context, key string, point models.GeoPoint) error {
	if f.failWrites {
		return errors.New("disk full")
	}
	f.entries[key] = point
	return nil
}

func newTestCached(next Geocoder, cache CacheStore) *CachedGeocoder {
	cached := NewCachedGeocoder(next, cache, nopLogger{})
	cached.minInterval = 0
	return cached
}

func TestCachedGeocoderMemoryHit(t *testing.T) {
	network := &fakeGeocoder{points: map[string]models.GeoPoint{
		"austin|tx": {Lat: 30.27, Lng: -97.74},
	}}
	cached := newTestCached(network, newFakeCacheStore())
	ctx := context.Background()

	first, err := cached.Geocode(ctx, "Austin", "TX")
	require.NoError(t, err)
	second, err := cached.Geocode(ctx, "Austin", "TX")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, network.calls, "repeat lookups must not reach the network")
}

func TestCachedGeocoderKeyNormalization(t *testing.T) {
	network := &fakeGeocoder{points: map[string]models.GeoPoint{
		"austin|tx": {Lat: 30.27, Lng: -97.74},
	}}
	cached := newTestCached(network, newFakeCacheStore())
	ctx := context.Background()

	_, err := cached.Geocode(ctx, "Austin", "TX")
	require.NoError(t, err)
	_, err = cached.Geocode(ctx, "  austin ", "tx")
	require.NoError(t, err)

	assert.Equal(t, 1, network.calls, "key matching ignores case and spacing")
}

func TestCachedGeocoderPersistentHit(t *testing.T) {
	cache := newFakeCacheStore()
	cache.entries["austin|tx"] = models.GeoPoint{Lat: 30.27, Lng: -97.74}

	network := &fakeGeocoder{}
	cached := newTestCached(network, cache)

	point, err := cached.Geocode(context.Background(), "Austin", "TX")
	require.NoError(t, err)
	assert.Equal(t, models.GeoPoint{Lat: 30.27, Lng: -97.74}, point)
	assert.Equal(t, 0, network.calls, "persisted locations must not reach the network")
}

func TestCachedGeocoderPersistsResults(t *testing.T) {
	cache := newFakeCacheStore()
	network := &fakeGeocoder{points: map[string]models.GeoPoint{
		"austin|tx": {Lat: 30.27, Lng: -97.74},
	}}
	cached := newTestCached(network, cache)

	_, err := cached.Geocode(context.Background(), "Austin", "TX")
	require.NoError(t, err)

	assert.Contains(t, cache.entries, "austin|tx")
}

func TestCachedGeocoderEmptyLocationSkipped(t *testing.T) {
	network := &fakeGeocoder{}
	cache := newFakeCacheStore()
	cached := newTestCached(network, cache)
	ctx := context.Background()

	for _, pair := range [][2]string{{"", "TX"}, {"Austin", ""}, {"  ", "  "}} {
		_, err := cached.Geocode(ctx, pair[0], pair[1])
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 0, network.calls)
	assert.Equal(t, 0, cache.reads)
}

func TestCachedGeocoderMissNotCached(t *testing.T) {
	network := &fakeGeocoder{}
	cache := newFakeCacheStore()
	cached := newTestCached(network, cache)
	ctx := context.Background()

	_, err := cached.Geocode(ctx, "Nowhere", "ZZ")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, cache.entries, "misses are not persisted")

	_, err = cached.Geocode(ctx, "Nowhere", "ZZ")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, network.calls)
}

func TestCachedGeocoderCacheWriteFailure(t *testing.T) {
	cache := newFakeCacheStore()
	cache.failWrites = true
	network := &fakeGeocoder{points: map[string]models.GeoPoint{
		"austin|tx": {Lat: 30.27, Lng: -97.74},
	}}
	cached := newTestCached(network, cache)

	point, err := cached.Geocode(context.Background(), "Austin", "TX")
	require.NoError(t, err, "a failed cache write must not fail the lookup")
	assert.Equal(t, models.GeoPoint{Lat: 30.27, Lng: -97.74}, point)
}

func TestCachedGeocoderPacing(t *testing.T) {
	network := &fakeGeocoder{points: map[string]models.GeoPoint{
		"austin|tx": {Lat: 30.27, Lng: -97.74},
		"dallas|tx": {Lat: 32.78, Lng: -96.80},
	}}
	cached := NewCachedGeocoder(network, newFakeCacheStore(), nopLogger{})
	cached.minInterval = 40 * time.Millisecond
	ctx := context.Background()

	start := time.Now()
	_, err := cached.Geocode(ctx, "Austin", "TX")
	require.NoError(t, err)
	_, err = cached.Geocode(ctx, "Dallas", "TX")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond,
		"back-to-back network lookups must be spaced out")
}

func TestNominatimQuery(t *testing.T) {
	assert.Equal(t, "Austin, TX, USA", nominatimQuery(" Austin ", "TX"))
	assert.Equal(t, "Gulfport, MS, USA", nominatimQuery("Gulfport", " MS "))
}
