package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"caselog/internal/models"
)

// StatusBar displays the last action and the current case count
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	countLabel  *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

// createComponents initializes status bar components
func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.countLabel = widget.NewLabel("Cases: --")
}

// buildLayout constructs the status bar layout
func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.countLabel,
	)
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	fyne.Do(func() {
		sb.statusLabel.SetText(status)
	})
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetCaseSummary updates the case count and total volume display
func (sb *StatusBar) SetCaseSummary(count int, totalGB float64) {
	fyne.Do(func() {
		sb.countLabel.SetText(fmt.Sprintf("Cases: %d | Total Volume: %s GB", count, models.FormatVolume(totalGB)))
	})
}

// Reset resets the status bar to initial state
func (sb *StatusBar) Reset() {
	fyne.Do(func() {
		sb.statusLabel.SetText("Ready")
		sb.countLabel.SetText("Cases: --")
	})
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// Refresh refreshes the status bar display
func (sb *StatusBar) Refresh() {
	fyne.Do(func() {
		sb.container.Refresh()
	})
}

// BusyIndicator shows an animated bar with a stage label while background
// work runs
type BusyIndicator struct {
	container  *fyne.Container
	bar        *widget.ProgressBarInfinite
	stageLabel *widget.Label
	busy       bool
}

// NewBusyIndicator creates a new busy indicator component
func NewBusyIndicator() *BusyIndicator {
	bi := &BusyIndicator{}
	bi.createComponents()
	bi.buildLayout()
	return bi
}

// createComponents initializes busy indicator components
func (bi *BusyIndicator) createComponents() {
	bi.bar = widget.NewProgressBarInfinite()
	bi.bar.Stop()
	bi.stageLabel = widget.NewLabel("")
	bi.busy = false
}

// buildLayout constructs the busy indicator layout
func (bi *BusyIndicator) buildLayout() {
	bi.container = container.NewVBox(
		bi.stageLabel,
		bi.bar,
	)
	bi.container.Hide() // Initially hidden
}

// Start shows the indicator with a stage description
func (bi *BusyIndicator) Start(stage string) {
	fyne.Do(func() {
		bi.busy = true
		bi.stageLabel.SetText(stage)
		bi.container.Show()
		bi.bar.Start()
	})
}

// Stop hides the indicator
func (bi *BusyIndicator) Stop() {
	fyne.Do(func() {
		bi.busy = false
		bi.bar.Stop()
		bi.container.Hide()
	})
}

// IsBusy returns true while the indicator is showing
func (bi *BusyIndicator) IsBusy() bool {
	return bi.busy
}

// GetStage returns the current stage text
func (bi *BusyIndicator) GetStage() string {
	return bi.stageLabel.Text
}

// GetContainer returns the busy indicator container
func (bi *BusyIndicator) GetContainer() *fyne.Container {
	return bi.container
}
