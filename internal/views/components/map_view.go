package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	mapPlaceholderWidth  = 900
	mapPlaceholderHeight = 560
)

// tappableImage wraps a canvas image so clicks on the map reach the marker
// hit-test.
type tappableImage struct {
	widget.BaseWidget
	image    *canvas.Image
	onTapped func(fyne.Position)
}

func newTappableImage(img *canvas.Image) *tappableImage {
	t := &tappableImage{image: img}
	t.ExtendBaseWidget(t)
	return t
}

// CreateRenderer returns the renderer for the wrapped image
func (t *tappableImage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.image)
}

// Tapped forwards a click to the registered handler
func (t *tappableImage) Tapped(event *fyne.PointEvent) {
	if t.onTapped != nil {
		t.onTapped(event.Position)
	}
}

// MapView shows the rendered case map and reports clicks in map pixel
// coordinates so the controller can resolve the nearest marker.
type MapView struct {
	container     *fyne.Container
	refreshButton *widget.Button
	statusLabel   *widget.Label
	mapImage      *canvas.Image
	tappable      *tappableImage

	// Event handlers
	refreshHandler func()
	tapHandler     func(x, y float64)

	// State
	imageWidth  int
	imageHeight int
	hasMap      bool
}

// NewMapView creates a new map view component
func NewMapView() *MapView {
	mv := &MapView{}
	mv.createComponents()
	mv.buildLayout()
	mv.setupEventHandlers()
	return mv
}

// createComponents initializes the map view components
func (mv *MapView) createComponents() {
	mv.refreshButton = widget.NewButton("Refresh Map", nil)
	mv.refreshButton.Importance = widget.HighImportance

	mv.statusLabel = widget.NewLabel("Map not loaded. Press Refresh Map to plot case locations.")

	mv.mapImage = canvas.NewImageFromImage(placeholderImage(mapPlaceholderWidth, mapPlaceholderHeight))
	mv.mapImage.FillMode = canvas.ImageFillContain
	mv.mapImage.ScaleMode = canvas.ImageScaleSmooth
	mv.mapImage.SetMinSize(fyne.NewSize(mapPlaceholderWidth, mapPlaceholderHeight))

	mv.tappable = newTappableImage(mv.mapImage)
}

// buildLayout constructs the Map View tab layout
func (mv *MapView) buildLayout() {
	topRow := container.NewHBox(mv.refreshButton, mv.statusLabel)

	mv.container = container.NewBorder(
		topRow, // top
		nil,
		nil,
		nil,
		container.NewScroll(mv.tappable),
	)
}

// setupEventHandlers connects map events
func (mv *MapView) setupEventHandlers() {
	mv.refreshButton.OnTapped = func() {
		if mv.refreshHandler != nil {
			mv.refreshHandler()
		}
	}

	mv.tappable.onTapped = func(pos fyne.Position) {
		if !mv.hasMap || mv.tapHandler == nil {
			return
		}
		x, y, ok := mv.imageCoords(pos)
		if ok {
			mv.tapHandler(x, y)
		}
	}
}

// imageCoords maps a widget position onto map image pixels, undoing the
// contain-fit scaling and letterbox offsets.
func (mv *MapView) imageCoords(pos fyne.Position) (float64, float64, bool) {
	size := mv.tappable.Size()
	if mv.imageWidth == 0 || mv.imageHeight == 0 || size.Width <= 0 || size.Height <= 0 {
		return 0, 0, false
	}

	scale := float64(size.Width) / float64(mv.imageWidth)
	if s := float64(size.Height) / float64(mv.imageHeight); s < scale {
		scale = s
	}

	offsetX := (float64(size.Width) - float64(mv.imageWidth)*scale) / 2
	offsetY := (float64(size.Height) - float64(mv.imageHeight)*scale) / 2

	x := (float64(pos.X) - offsetX) / scale
	y := (float64(pos.Y) - offsetY) / scale
	if x < 0 || y < 0 || x >= float64(mv.imageWidth) || y >= float64(mv.imageHeight) {
		return 0, 0, false
	}
	return x, y, true
}

// Event handler setters

// SetRefreshHandler sets the handler for the refresh button
func (mv *MapView) SetRefreshHandler(handler func()) {
	mv.refreshHandler = handler
}

// SetTapHandler sets the handler for clicks, in map pixel coordinates
func (mv *MapView) SetTapHandler(handler func(x, y float64)) {
	mv.tapHandler = handler
}

// SetMapImage replaces the displayed map
func (mv *MapView) SetMapImage(img image.Image) {
	fyne.Do(func() {
		bounds := img.Bounds()
		mv.imageWidth = bounds.Dx()
		mv.imageHeight = bounds.Dy()
		mv.hasMap = true
		mv.mapImage.Image = img
		mv.mapImage.SetMinSize(fyne.NewSize(float32(mv.imageWidth), float32(mv.imageHeight)))
		mv.mapImage.Refresh()
	})
}

// SetStatus updates the map status line
func (mv *MapView) SetStatus(status string) {
	fyne.Do(func() {
		mv.statusLabel.SetText(status)
	})
}

// HasMap reports whether a rendered map is showing
func (mv *MapView) HasMap() bool {
	return mv.hasMap
}

// GetContainer returns the map view container
func (mv *MapView) GetContainer() *fyne.Container {
	return mv.container
}

// placeholderImage builds the light grey stand-in shown before first render
func placeholderImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	fill := color.RGBA{R: 240, G: 240, B: 240, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}

	border := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	for x := 0; x < width; x++ {
		img.Set(x, 0, border)
		img.Set(x, height-1, border)
	}
	for y := 0; y < height; y++ {
		img.Set(0, y, border)
		img.Set(width-1, y, border)
	}

	return img
}
