package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"

	"caselog/internal/logger"
	"caselog/internal/models"
)

// ErrNotFound reports that the provider returned no result for a location.
// It is a definitive miss and is never retried.
var ErrNotFound = errors.New("location not found")

// Geocoder resolves a city/state pair to map coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city, state string) (models.GeoPoint, error)
}

const (
	nominatimTimeout  = 10 * time.Second
	nominatimAttempts = 3
	nominatimDelay    = 500 * time.Millisecond
)

// NominatimGeocoder resolves locations against the OpenStreetMap Nominatim
// service. The underlying client has no context support, so lookups run in a
// goroutine and are abandoned on cancellation or timeout.
type NominatimGeocoder struct {
	geocoder geo.Geocoder
	timeout  time.Duration
	logger   logger.Logger
}

func NewNominatimGeocoder(log logger.Logger) *NominatimGeocoder {
	return &NominatimGeocoder{
		geocoder: openstreetmap.Geocoder(),
		timeout:  nominatimTimeout,
		logger:   log,
	}
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, city, state string) (models.GeoPoint, error) {
	query := nominatimQuery(city, state)

	var point models.GeoPoint
	err := retry.Do(
		func() error {
			resolved, err := g.lookup(ctx, query)
			if err != nil {
				return err
			}
			point = resolved
			return nil
		},
		retry.Attempts(nominatimAttempts),
		retry.LastErrorOnly(true),
		retry.Delay(nominatimDelay),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrNotFound) && !errors.Is(err, context.Canceled)
		}),
	)
	if err != nil {
		return models.GeoPoint{}, err
	}

	g.logger.Debug("location geocoded", map[string]interface{}{
		"query": query,
		"lat":   point.Lat,
		"lng":   point.Lng,
	})
	return point, nil
}

func (g *NominatimGeocoder) lookup(ctx context.Context, query string) (models.GeoPoint, error) {
	type result struct {
		location *geo.Location
		err      error
	}

	resultChan := make(chan result, 1)
	go func() {
		location, err := g.geocoder.Geocode(query)
		resultChan <- result{location: location, err: err}
	}()

	select {
	case <-ctx.Done():
		return models.GeoPoint{}, ctx.Err()
	case <-time.After(g.timeout):
		return models.GeoPoint{}, fmt.Errorf("geocode request timed out after %v", g.timeout)
	case res := <-resultChan:
		if res.err != nil {
			return models.GeoPoint{}, fmt.Errorf("geocode request failed: %w", res.err)
		}
		if res.location == nil || (res.location.Lat == 0 && res.location.Lng == 0) {
			return models.GeoPoint{}, ErrNotFound
		}
		return models.GeoPoint{Lat: res.location.Lat, Lng: res.location.Lng}, nil
	}
}

// nominatimQuery builds the free-form search string. Records only carry US
// jurisdictions, so the country is pinned to keep ambiguous city names from
// resolving abroad.
func nominatimQuery(city, state string) string {
	return fmt.Sprintf("%s, %s, USA", strings.TrimSpace(city), strings.TrimSpace(state))
}
