package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"caselog/internal/models"
)

type geocacheRow struct {
	LocationKey  string  `db:"location_key"`
	Latitude     float64 `db:"latitude"`
	Longitude    float64 `db:"longitude"`
	LastAccessed string  `db:"last_accessed"`
}

// CachedLocation returns the persisted coordinates for a location key, or nil
// on a cache miss. Hits refresh last_accessed; entries never expire.
func (s *Store) CachedLocation(ctx context.Context, key string) (*models.GeoPoint, error) {
	var row geocacheRow
	err := s.db.GetContext(ctx, &row,
		"SELECT location_key, latitude, longitude, last_accessed FROM geocode_cache WHERE location_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read geocode cache: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE geocode_cache SET last_accessed = ? WHERE location_key = ?",
		time.Now().UTC().Format("2006-01-02 15:04:05"), key)
	if err != nil {
		return nil, fmt.Errorf("failed to touch geocode cache entry: %w", err)
	}

	return &models.GeoPoint{Lat: row.Latitude, Lng: row.Longitude}, nil
}

// StoreLocation upserts a geocoded result for a location key.
func (s *Store) StoreLocation(ctx context.Context, key string, point models.GeoPoint) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO geocode_cache (location_key, latitude, longitude, last_accessed)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(location_key) DO UPDATE SET
		   latitude = excluded.latitude,
		   longitude = excluded.longitude,
		   last_accessed = excluded.last_accessed`,
		key, point.Lat, point.Lng, time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return fmt.Errorf("failed to store geocode cache entry: %w", err)
	}

	s.logger.Debug("geocode cache entry stored", map[string]interface{}{
		"key": key,
		"lat": point.Lat,
		"lng": point.Lng,
	})
	return nil
}

// CountCachedLocations returns the number of cached geocode entries.
func (s *Store) CountCachedLocations(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM geocode_cache"); err != nil {
		return 0, fmt.Errorf("failed to count geocode cache entries: %w", err)
	}
	return count, nil
}
