package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"caselog/internal/geocode"
	"caselog/internal/logger"
	"caselog/internal/models"
	"caselog/internal/store"
)

// LocationService resolves case records into mappable locations.
type LocationService struct {
	store    *store.Store
	geocoder geocode.Geocoder
	logger   logger.Logger
}

// NewLocationService creates a new location service
func NewLocationService(st *store.Store, gc geocode.Geocoder, log logger.Logger) *LocationService {
	return &LocationService{
		store:    st,
		geocoder: gc,
		logger:   log,
	}
}

// MapLocations groups records by city/state and geocodes each distinct place
// exactly once. Records without both city and state are left off the map,
// and places that fail to resolve are dropped and counted in failed.
func (ls *LocationService) MapLocations(ctx context.Context) (locations []models.MapLocation, failed int, err error) {
	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	default:
	}

	records, err := ls.store.ListRecords(ctx)
	if err != nil {
		return nil, 0, err
	}

	groups := make(map[string]*models.MapLocation)
	var keys []string
	for _, rec := range records {
		if !rec.MapEligible() {
			continue
		}
		key := models.LocationKey(rec.CityOfOffense, rec.StateOfOffense)
		group, ok := groups[key]
		if !ok {
			group = &models.MapLocation{
				City:  strings.TrimSpace(rec.CityOfOffense),
				State: strings.TrimSpace(rec.StateOfOffense),
			}
			groups[key] = group
			keys = append(keys, key)
		}
		group.Records = append(group.Records, rec)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := groups[key]

		point, err := ls.geocoder.Geocode(ctx, group.City, group.State)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, failed, err
			}
			failed++
			ls.logger.Warning("failed to geocode location", map[string]interface{}{
				"city":  group.City,
				"state": group.State,
				"error": err.Error(),
			})
			continue
		}

		group.Point = point
		locations = append(locations, *group)
	}

	ls.logger.Info("map locations resolved", map[string]interface{}{
		"locations": len(locations),
		"failed":    failed,
		"records":   len(records),
	})
	return locations, failed, nil
}
