package mapview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	sm "github.com/flopp/go-staticmaps"
	"github.com/golang/geo/s2"

	"caselog/internal/logger"
	"caselog/internal/models"
)

const (
	renderWidth  = 1100
	renderHeight = 700

	renderTimeout = 30 * time.Second

	markerSize = 16.0
	// Click-to-marker distance in pixels. Slightly wider than the marker
	// glyph so imprecise clicks still land.
	hitRadius = 18.0
)

var markerColor = color.RGBA{R: 0xd3, G: 0x2f, B: 0x2f, A: 0xff}

// Renderer draws case locations onto OpenStreetMap tiles. Tile fetches go
// over the network, so rendering accepts a context and runs with a timeout.
type Renderer struct {
	width  int
	height int
	logger logger.Logger
}

func NewRenderer(log logger.Logger) *Renderer {
	return &Renderer{
		width:  renderWidth,
		height: renderHeight,
		logger: log,
	}
}

// Render produces the map image for the given locations along with the
// projection needed to resolve clicks on it.
func (r *Renderer) Render(ctx context.Context, locations []models.MapLocation) (image.Image, Projection, error) {
	points := make([]models.GeoPoint, 0, len(locations))
	for _, loc := range locations {
		points = append(points, loc.Point)
	}
	proj := FitProjection(points, r.width, r.height)

	mapCtx := sm.NewContext()
	mapCtx.SetSize(r.width, r.height)
	mapCtx.SetCenter(s2.LatLngFromDegrees(proj.Center.Lat, proj.Center.Lng))
	mapCtx.SetZoom(proj.Zoom)
	for _, loc := range locations {
		marker := sm.NewMarker(s2.LatLngFromDegrees(loc.Point.Lat, loc.Point.Lng), markerColor, markerSize)
		mapCtx.AddObject(marker)
	}

	type result struct {
		img image.Image
		err error
	}
	resultChan := make(chan result, 1)
	go func() {
		img, err := mapCtx.Render()
		resultChan <- result{img: img, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, proj, ctx.Err()
	case <-time.After(renderTimeout):
		return nil, proj, fmt.Errorf("map render timed out after %v", renderTimeout)
	case res := <-resultChan:
		if res.err != nil {
			return nil, proj, fmt.Errorf("failed to render map: %w", res.err)
		}
		r.logger.Info("map rendered", map[string]interface{}{
			"locations": len(locations),
			"zoom":      proj.Zoom,
		})
		return res.img, proj, nil
	}
}

// FindNearest resolves a click at image pixel coordinates to the closest
// marker within the hit radius. The second return is false when no marker is
// close enough.
func FindNearest(proj Projection, locations []models.MapLocation, x, y float64) (models.MapLocation, bool) {
	var (
		nearest  models.MapLocation
		bestDist = math.MaxFloat64
		found    bool
	)

	for _, loc := range locations {
		markerX, markerY := proj.ToPixel(loc.Point)
		dist := math.Hypot(markerX-x, markerY-y)
		if dist <= hitRadius && dist < bestDist {
			nearest = loc
			bestDist = dist
			found = true
		}
	}
	return nearest, found
}
