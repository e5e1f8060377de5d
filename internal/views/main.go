package views

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"caselog/internal/views/components"
)

// Tab indexes in display order.
const (
	TabEntry = iota
	TabData
	TabMap
	TabGraphs
	TabSettings
)

// MainView assembles the five application tabs over a shared status area
// using MVC pattern
type MainView struct {
	// UI Components
	window        fyne.Window
	mainContainer *fyne.Container
	tabs          *container.AppTabs
	entryForm     *components.EntryForm
	dataTable     *components.DataTable
	mapView       *components.MapView
	chartView     *components.ChartView
	settingsView  *components.SettingsView
	statusBar     *components.StatusBar
	busyIndicator *components.BusyIndicator

	// Event handlers - connected to controller
	tabSelectedHandler func(index int)
}

// NewMainView creates a new main view
func NewMainView(window fyne.Window, dataDir, defaultPassword string) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents(dataDir, defaultPassword)
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

// initializeComponents creates all UI components
func (mv *MainView) initializeComponents(dataDir, defaultPassword string) {
	mv.entryForm = components.NewEntryForm()
	mv.dataTable = components.NewDataTable()
	mv.mapView = components.NewMapView()
	mv.chartView = components.NewChartView()
	mv.settingsView = components.NewSettingsView(dataDir, defaultPassword)
	mv.statusBar = components.NewStatusBar()
	mv.busyIndicator = components.NewBusyIndicator()
}

// buildLayout constructs the main layout
func (mv *MainView) buildLayout() {
	mv.tabs = container.NewAppTabs(
		container.NewTabItem("New Case Entry", mv.entryForm.GetContainer()),
		container.NewTabItem("View Data", mv.dataTable.GetContainer()),
		container.NewTabItem("Map View", mv.mapView.GetContainer()),
		container.NewTabItem("Graph Analysis", mv.chartView.GetContainer()),
		container.NewTabItem("Settings", mv.settingsView.GetContainer()),
	)

	bottomArea := container.NewVBox(
		mv.busyIndicator.GetContainer(),
		mv.statusBar.GetContainer(),
	)

	mv.mainContainer = container.NewBorder(
		nil,        // top
		bottomArea, // bottom
		nil,        // left
		nil,        // right
		mv.tabs,    // center
	)

	mv.window.SetContent(mv.mainContainer)
}

// setupEventHandlers connects internal component events
func (mv *MainView) setupEventHandlers() {
	mv.tabs.OnSelected = func(*container.TabItem) {
		if mv.tabSelectedHandler != nil {
			mv.tabSelectedHandler(mv.tabs.SelectedIndex())
		}
	}
}

// Event handler setters - called by controller

// SetTabSelectedHandler sets the handler for tab switches
func (mv *MainView) SetTabSelectedHandler(handler func(index int)) {
	mv.tabSelectedHandler = handler
}

// Component accessors - the controller wires component handlers directly

// EntryForm returns the entry form component
func (mv *MainView) EntryForm() *components.EntryForm {
	return mv.entryForm
}

// DataTable returns the data table component
func (mv *MainView) DataTable() *components.DataTable {
	return mv.dataTable
}

// MapView returns the map view component
func (mv *MainView) MapView() *components.MapView {
	return mv.mapView
}

// ChartView returns the chart view component
func (mv *MainView) ChartView() *components.ChartView {
	return mv.chartView
}

// SettingsView returns the settings view component
func (mv *MainView) SettingsView() *components.SettingsView {
	return mv.settingsView
}

// UI update methods - called by controller. The components marshal their own
// updates onto the UI thread.

// SetStatus updates the status bar message
func (mv *MainView) SetStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// SetCaseSummary updates the case count and total volume in the status bar
func (mv *MainView) SetCaseSummary(count int, totalGB float64) {
	mv.statusBar.SetCaseSummary(count, totalGB)
}

// StartBusy shows the busy indicator with a stage description
func (mv *MainView) StartBusy(stage string) {
	mv.busyIndicator.Start(stage)
}

// StopBusy hides the busy indicator
func (mv *MainView) StopBusy() {
	mv.busyIndicator.Stop()
}

// SelectTab switches the visible tab
func (mv *MainView) SelectTab(index int) {
	fyne.Do(func() {
		mv.tabs.SelectIndex(index)
	})
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	fyne.Do(func() {
		dialog.ShowError(err, mv.window)
	})
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, mv.window)
	})
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, callback, mv.window)
	})
}

// ShowCustomConfirm displays a custom dialog with confirm and dismiss buttons
func (mv *MainView) ShowCustomConfirm(title, confirm, dismiss string, content fyne.CanvasObject, callback func(bool)) {
	fyne.Do(func() {
		dialog.ShowCustomConfirm(title, confirm, dismiss, content, callback, mv.window)
	})
}

// ShowCustom displays a custom dialog with a single dismiss button
func (mv *MainView) ShowCustom(title, dismiss string, content fyne.CanvasObject) {
	fyne.Do(func() {
		dialog.ShowCustom(title, dismiss, content, mv.window)
	})
}

// ShowFileOpen displays a file selection dialog filtered to the extensions
func (mv *MainView) ShowFileOpen(extensions []string, callback func(fyne.URIReadCloser, error)) {
	fyne.Do(func() {
		fileDialog := dialog.NewFileOpen(callback, mv.window)
		fileDialog.SetFilter(storage.NewExtensionFileFilter(extensions))
		fileDialog.Show()
	})
}

// ShowFileSave displays a file save dialog with a suggested name
func (mv *MainView) ShowFileSave(suggestedName string, extensions []string, callback func(fyne.URIWriteCloser, error)) {
	fyne.Do(func() {
		fileDialog := dialog.NewFileSave(callback, mv.window)
		fileDialog.SetFileName(suggestedName)
		fileDialog.SetFilter(storage.NewExtensionFileFilter(extensions))
		fileDialog.Show()
	})
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// GetContainer returns the main container
func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}

// SetWindowTitle updates the window title
func (mv *MainView) SetWindowTitle(title string) {
	fyne.Do(func() {
		mv.window.SetTitle(title)
	})
}

// Show displays the view
func (mv *MainView) Show() {
	fyne.Do(func() {
		mv.window.Show()
	})
}

// Close closes the view
func (mv *MainView) Close() {
	fyne.Do(func() {
		mv.window.Close()
	})
}
