package mapview

import (
	"math"

	"caselog/internal/models"
)

const (
	tileSize = 256

	// Roughly the geographic center of Mississippi. Shown before any
	// mappable cases exist.
	defaultCenterLat = 32.7
	defaultCenterLng = -89.5
	defaultZoom      = 7

	fitZoomMax = 11
	fitZoomMin = 3
	fitPadding = 48
)

// Projection describes the Web Mercator view of a rendered map image: its
// center, zoom level and pixel dimensions. It converts between geographic
// coordinates and image pixels so marker clicks can be resolved without
// asking the tile renderer.
type Projection struct {
	Center models.GeoPoint
	Zoom   int
	Width  int
	Height int
}

func worldSize(zoom int) float64 {
	return tileSize * math.Exp2(float64(zoom))
}

func project(point models.GeoPoint, zoom int) (x, y float64) {
	size := worldSize(zoom)
	latRad := point.Lat * math.Pi / 180

	x = size * (point.Lng + 180) / 360
	y = size * (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2
	return x, y
}

func unproject(x, y float64, zoom int) models.GeoPoint {
	size := worldSize(zoom)

	lng := x/size*360 - 180
	lat := math.Atan(math.Sinh(math.Pi*(1-2*y/size))) * 180 / math.Pi
	return models.GeoPoint{Lat: lat, Lng: lng}
}

// ToPixel maps a geographic point to image pixel coordinates.
func (p Projection) ToPixel(point models.GeoPoint) (x, y float64) {
	centerX, centerY := project(p.Center, p.Zoom)
	pointX, pointY := project(point, p.Zoom)

	x = float64(p.Width)/2 + (pointX - centerX)
	y = float64(p.Height)/2 + (pointY - centerY)
	return x, y
}

// FromPixel maps image pixel coordinates back to a geographic point.
func (p Projection) FromPixel(x, y float64) models.GeoPoint {
	centerX, centerY := project(p.Center, p.Zoom)

	worldX := centerX + (x - float64(p.Width)/2)
	worldY := centerY + (y - float64(p.Height)/2)
	return unproject(worldX, worldY, p.Zoom)
}

// Contains reports whether the pixel position lies inside the image.
func (p Projection) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x < float64(p.Width) && y < float64(p.Height)
}

// FitProjection chooses a center and zoom so every point is visible within a
// width by height image, with some padding for the marker glyphs. Without
// points it falls back to the default statewide view.
func FitProjection(points []models.GeoPoint, width, height int) Projection {
	proj := Projection{
		Center: models.GeoPoint{Lat: defaultCenterLat, Lng: defaultCenterLng},
		Zoom:   defaultZoom,
		Width:  width,
		Height: height,
	}
	if len(points) == 0 {
		return proj
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLng, maxLng := points[0].Lng, points[0].Lng
	for _, pt := range points[1:] {
		minLat = math.Min(minLat, pt.Lat)
		maxLat = math.Max(maxLat, pt.Lat)
		minLng = math.Min(minLng, pt.Lng)
		maxLng = math.Max(maxLng, pt.Lng)
	}

	proj.Center = models.GeoPoint{Lat: (minLat + maxLat) / 2, Lng: (minLng + maxLng) / 2}
	proj.Zoom = fitZoomMin

	for zoom := fitZoomMax; zoom >= fitZoomMin; zoom-- {
		minX, maxY := project(models.GeoPoint{Lat: minLat, Lng: minLng}, zoom)
		maxX, minY := project(models.GeoPoint{Lat: maxLat, Lng: maxLng}, zoom)

		if maxX-minX <= float64(width-2*fitPadding) && maxY-minY <= float64(height-2*fitPadding) {
			proj.Zoom = zoom
			break
		}
	}
	return proj
}
