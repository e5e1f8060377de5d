package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caselog/internal/models"
)

func TestProjectionCenterMapsToImageCenter(t *testing.T) {
	proj := Projection{
		Center: models.GeoPoint{Lat: 32.7, Lng: -89.5},
		Zoom:   7,
		Width:  1100,
		Height: 700,
	}

	x, y := proj.ToPixel(proj.Center)
	assert.InDelta(t, 550, x, 0.001)
	assert.InDelta(t, 350, y, 0.001)
}

func TestProjectionRoundTrip(t *testing.T) {
	proj := Projection{
		Center: models.GeoPoint{Lat: 32.7, Lng: -89.5},
		Zoom:   9,
		Width:  1100,
		Height: 700,
	}

	points := []models.GeoPoint{
		{Lat: 30.3674, Lng: -89.0928},
		{Lat: 32.2988, Lng: -90.1848},
		{Lat: 34.366, Lng: -89.5192},
	}
	for _, pt := range points {
		x, y := proj.ToPixel(pt)
		back := proj.FromPixel(x, y)
		assert.InDelta(t, pt.Lat, back.Lat, 1e-9)
		assert.InDelta(t, pt.Lng, back.Lng, 1e-9)
	}
}

func TestProjectionNorthIsUp(t *testing.T) {
	proj := Projection{
		Center: models.GeoPoint{Lat: 32.7, Lng: -89.5},
		Zoom:   7,
		Width:  1100,
		Height: 700,
	}

	_, northY := proj.ToPixel(models.GeoPoint{Lat: 34, Lng: -89.5})
	_, southY := proj.ToPixel(models.GeoPoint{Lat: 31, Lng: -89.5})
	assert.Less(t, northY, southY)

	eastX, _ := proj.ToPixel(models.GeoPoint{Lat: 32.7, Lng: -88})
	westX, _ := proj.ToPixel(models.GeoPoint{Lat: 32.7, Lng: -91})
	assert.Greater(t, eastX, westX)
}

func TestFitProjectionDefaults(t *testing.T) {
	proj := FitProjection(nil, 1100, 700)
	assert.Equal(t, defaultZoom, proj.Zoom)
	assert.InDelta(t, defaultCenterLat, proj.Center.Lat, 0.001)
	assert.InDelta(t, defaultCenterLng, proj.Center.Lng, 0.001)
}

func TestFitProjectionSinglePoint(t *testing.T) {
	point := models.GeoPoint{Lat: 30.3674, Lng: -89.0928}
	proj := FitProjection([]models.GeoPoint{point}, 1100, 700)

	assert.Equal(t, fitZoomMax, proj.Zoom, "a single point fits at the maximum zoom")

	x, y := proj.ToPixel(point)
	assert.InDelta(t, 550, x, 0.001)
	assert.InDelta(t, 350, y, 0.001)
}

func TestFitProjectionKeepsPointsVisible(t *testing.T) {
	points := []models.GeoPoint{
		{Lat: 30.3674, Lng: -89.0928},
		{Lat: 34.9948, Lng: -90.0489},
		{Lat: 32.2988, Lng: -88.7034},
	}
	proj := FitProjection(points, 1100, 700)

	require.GreaterOrEqual(t, proj.Zoom, fitZoomMin)
	require.LessOrEqual(t, proj.Zoom, fitZoomMax)

	for _, pt := range points {
		x, y := proj.ToPixel(pt)
		assert.True(t, proj.Contains(x, y), "point (%v, %v) projects outside the image", pt.Lat, pt.Lng)
	}
}

func TestFitProjectionWideSpread(t *testing.T) {
	// Coast to coast forces the zoom floor rather than an endless loop.
	points := []models.GeoPoint{
		{Lat: 47.6, Lng: -122.3},
		{Lat: 25.8, Lng: -80.2},
	}
	proj := FitProjection(points, 1100, 700)
	assert.GreaterOrEqual(t, proj.Zoom, fitZoomMin)
	assert.LessOrEqual(t, proj.Zoom, 5)
}

func TestFindNearest(t *testing.T) {
	proj := Projection{
		Center: models.GeoPoint{Lat: 32.7, Lng: -89.5},
		Zoom:   7,
		Width:  1100,
		Height: 700,
	}
	locations := []models.MapLocation{
		{City: "Jackson", State: "MS", Point: models.GeoPoint{Lat: 32.2988, Lng: -90.1848}},
		{City: "Gulfport", State: "MS", Point: models.GeoPoint{Lat: 30.3674, Lng: -89.0928}},
	}

	jacksonX, jacksonY := proj.ToPixel(locations[0].Point)

	hit, ok := FindNearest(proj, locations, jacksonX, jacksonY)
	require.True(t, ok)
	assert.Equal(t, "Jackson", hit.City)

	hit, ok = FindNearest(proj, locations, jacksonX+10, jacksonY-10)
	require.True(t, ok, "clicks within the hit radius resolve")
	assert.Equal(t, "Jackson", hit.City)

	_, ok = FindNearest(proj, locations, jacksonX+200, jacksonY)
	assert.False(t, ok, "distant clicks resolve to nothing")

	_, ok = FindNearest(proj, nil, jacksonX, jacksonY)
	assert.False(t, ok)
}
