package components

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	logoPreviewWidth  = 200
	logoPreviewHeight = 100
)

// SettingsView holds the logo picker, import, log viewer, and the guarded
// password and wipe actions of the Settings tab.
type SettingsView struct {
	container *fyne.Container

	selectLogoButton     *widget.Button
	importButton         *widget.Button
	viewLogButton        *widget.Button
	changePasswordButton *widget.Button
	wipeButton           *widget.Button
	logoPreview          *canvas.Image

	// Event handlers
	selectLogoHandler     func()
	importHandler         func()
	viewLogHandler        func()
	changePasswordHandler func()
	wipeHandler           func()

	dataDir         string
	defaultPassword string
}

// NewSettingsView creates a new settings view component
func NewSettingsView(dataDir, defaultPassword string) *SettingsView {
	sv := &SettingsView{
		dataDir:         dataDir,
		defaultPassword: defaultPassword,
	}
	sv.createComponents()
	sv.buildLayout()
	sv.setupEventHandlers()
	return sv
}

// createComponents initializes the settings controls
func (sv *SettingsView) createComponents() {
	sv.selectLogoButton = widget.NewButton("Select Logo File...", nil)

	sv.importButton = widget.NewButton("Import Cases from XLSX", nil)
	sv.viewLogButton = widget.NewButton("View Application Log", nil)
	sv.changePasswordButton = widget.NewButton("Change Password", nil)

	sv.wipeButton = widget.NewButton("Clear Application Data", nil)
	sv.wipeButton.Importance = widget.DangerImportance

	sv.logoPreview = canvas.NewImageFromImage(placeholderImage(logoPreviewWidth, logoPreviewHeight))
	sv.logoPreview.FillMode = canvas.ImageFillContain
	sv.logoPreview.ScaleMode = canvas.ImageScaleSmooth
	sv.logoPreview.SetMinSize(fyne.NewSize(logoPreviewWidth, logoPreviewHeight))
}

// buildLayout constructs the Settings tab layout
func (sv *SettingsView) buildLayout() {
	logoSection := container.NewVBox(
		widget.NewRichTextFromMarkdown("**Header Logo**"),
		widget.NewLabel(fmt.Sprintf("Select an image (png, jpg, jpeg, gif).\nSaved as logo.png in:\n%s", sv.dataDir)),
		container.NewHBox(sv.selectLogoButton),
		container.NewHBox(sv.logoPreview),
	)

	actionSection := container.NewVBox(
		widget.NewRichTextFromMarkdown("**Data and Security**"),
		container.NewHBox(
			sv.importButton,
			sv.viewLogButton,
			sv.changePasswordButton,
			sv.wipeButton,
		),
	)

	passwordNote := widget.NewLabel(fmt.Sprintf(
		"Default Password: %s\n(Change the default password before storing case data.)", sv.defaultPassword))
	geocodingNote := widget.NewLabel(
		"Note: map geocoding uses the Nominatim service, which has usage policies.\nPlease use responsibly.")

	content := container.NewVBox(
		logoSection,
		widget.NewSeparator(),
		actionSection,
		passwordNote,
		geocodingNote,
	)

	sv.container = container.NewStack(container.NewVScroll(content))
}

// setupEventHandlers connects button events
func (sv *SettingsView) setupEventHandlers() {
	sv.selectLogoButton.OnTapped = func() {
		if sv.selectLogoHandler != nil {
			sv.selectLogoHandler()
		}
	}

	sv.importButton.OnTapped = func() {
		if sv.importHandler != nil {
			sv.importHandler()
		}
	}

	sv.viewLogButton.OnTapped = func() {
		if sv.viewLogHandler != nil {
			sv.viewLogHandler()
		}
	}

	sv.changePasswordButton.OnTapped = func() {
		if sv.changePasswordHandler != nil {
			sv.changePasswordHandler()
		}
	}

	sv.wipeButton.OnTapped = func() {
		if sv.wipeHandler != nil {
			sv.wipeHandler()
		}
	}
}

// Event handler setters

// SetSelectLogoHandler sets the handler for the logo picker button
func (sv *SettingsView) SetSelectLogoHandler(handler func()) {
	sv.selectLogoHandler = handler
}

// SetImportHandler sets the handler for the XLSX import button
func (sv *SettingsView) SetImportHandler(handler func()) {
	sv.importHandler = handler
}

// SetViewLogHandler sets the handler for the log viewer button
func (sv *SettingsView) SetViewLogHandler(handler func()) {
	sv.viewLogHandler = handler
}

// SetChangePasswordHandler sets the handler for the change password button
func (sv *SettingsView) SetChangePasswordHandler(handler func()) {
	sv.changePasswordHandler = handler
}

// SetWipeHandler sets the handler for the clear data button
func (sv *SettingsView) SetWipeHandler(handler func()) {
	sv.wipeHandler = handler
}

// SetLogoPreview shows the current logo, or the placeholder when nil
func (sv *SettingsView) SetLogoPreview(img image.Image) {
	fyne.Do(func() {
		if img != nil {
			sv.logoPreview.Image = img
		} else {
			sv.logoPreview.Image = placeholderImage(logoPreviewWidth, logoPreviewHeight)
		}
		sv.logoPreview.Refresh()
	})
}

// GetContainer returns the settings view container
func (sv *SettingsView) GetContainer() *fyne.Container {
	return sv.container
}
