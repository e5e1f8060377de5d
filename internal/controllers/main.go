package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"caselog/internal/charts"
	"caselog/internal/logger"
	"caselog/internal/mapview"
	"caselog/internal/models"
	"caselog/internal/services"
	"caselog/internal/views"
	"caselog/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	// queryTimeout bounds quick database work triggered from the UI.
	queryTimeout = 30 * time.Second
	// taskTimeout bounds long background tasks such as map rendering,
	// which geocodes uncached locations at Nominatim's rate limit.
	taskTimeout = 10 * time.Minute

	logTailBytes = 64 * 1024
)

// MainController orchestrates the application using MVC pattern
type MainController struct {
	// Services
	recordService   *services.RecordService
	locationService *services.LocationService
	chartService    *services.ChartService
	reportService   *services.ReportService
	settingsService *services.SettingsService

	// Map rendering
	renderer *mapview.Renderer

	// Views
	mainView *views.MainView

	logger logger.Logger

	// State management
	mu             sync.RWMutex
	taskCancelFunc context.CancelFunc
	mapProjection  mapview.Projection
	mapLocations   []models.MapLocation
	mapReady       bool
	chartPNG       []byte

	// Event handlers
	eventHandlers map[string][]EventHandler
	eventMu       sync.RWMutex
}

// EventHandler represents a function that handles application events
type EventHandler func(data interface{}) error

// NewMainController creates a new main controller
func NewMainController(
	recordService *services.RecordService,
	locationService *services.LocationService,
	chartService *services.ChartService,
	reportService *services.ReportService,
	settingsService *services.SettingsService,
	renderer *mapview.Renderer,
	log logger.Logger,
) *MainController {
	controller := &MainController{
		recordService:   recordService,
		locationService: locationService,
		chartService:    chartService,
		reportService:   reportService,
		settingsService: settingsService,
		renderer:        renderer,
		logger:          log,
		eventHandlers:   make(map[string][]EventHandler),
	}

	controller.initializeEventHandlers()
	return controller
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view *views.MainView) {
	mc.mainView = view
	mc.setupViewEventHandlers()
}

// Start performs the initial data load once the view is wired up.
func (mc *MainController) Start() {
	go func() {
		if err := mc.refreshCaseData(); err != nil {
			mc.handleError("Load failed", err)
			return
		}
		mc.mainView.SetStatus("Ready")
	}()
	go mc.refreshLogoPreview()
}

// SubmitCase saves the entry form as a new case record.
func (mc *MainController) SubmitCase() {
	form := mc.mainView.EntryForm()
	rec, err := form.Record()
	if err != nil {
		mc.mainView.ShowError("Invalid entry", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()

		id, err := mc.recordService.AddRecord(ctx, &rec)
		if err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				mc.mainView.ShowError("Invalid entry", verr)
				return
			}
			mc.handleError("Save failed", err)
			return
		}

		form.Clear()
		mc.mainView.SetStatus(fmt.Sprintf("Case %s saved.", rec.CaseNumber))
		mc.logger.Info("case added", map[string]interface{}{
			"id":          id,
			"case_number": rec.CaseNumber,
		})
		mc.emitEvent("records_changed", "case added")
	}()
}

// ClearEntryForm resets the entry form to its blank state.
func (mc *MainController) ClearEntryForm() {
	mc.mainView.EntryForm().Clear()
	mc.mainView.SetStatus("Entry form cleared.")
}

// RefreshRecords reloads the case table, status summary, and filter options.
func (mc *MainController) RefreshRecords() {
	go func() {
		if err := mc.refreshCaseData(); err != nil {
			mc.handleError("Refresh failed", err)
			return
		}
		mc.mainView.SetStatus("Case data refreshed.")
	}()
}

// EditRecord opens the edit dialog pre-filled with the selected case.
func (mc *MainController) EditRecord(rec models.CaseRecord) {
	form := components.NewEntryForm()
	form.SetRecord(rec)

	content := container.NewVScroll(form.FieldsContainer())
	content.SetMinSize(fyne.NewSize(640, 480))

	title := fmt.Sprintf("Edit Case %s", rec.CaseNumber)
	mc.mainView.ShowCustomConfirm(title, "Save Changes", "Cancel", content, func(save bool) {
		if !save {
			return
		}
		updated, err := form.Record()
		if err != nil {
			mc.mainView.ShowError("Invalid entry", err)
			return
		}
		go mc.performRecordUpdate(updated)
	})
}

// DeleteRecord asks for confirmation, then removes the selected case.
func (mc *MainController) DeleteRecord(rec models.CaseRecord) {
	message := fmt.Sprintf("Delete case %s? This cannot be undone.", rec.CaseNumber)
	mc.mainView.ShowConfirm("Delete Case", message, func(confirmed bool) {
		if !confirmed {
			return
		}
		go mc.performRecordDelete(rec)
	})
}

// ExportPDF exports the full case log as a PDF report.
func (mc *MainController) ExportPDF() {
	mc.exportReport("case_log_report.pdf", ".pdf", mc.reportService.ExportPDF)
}

// ExportXLSX exports the full case log as a re-importable workbook.
func (mc *MainController) ExportXLSX() {
	mc.exportReport("case_log_export.xlsx", ".xlsx", mc.reportService.ExportXLSX)
}

// ImportCases merges an exported workbook back into the case log.
func (mc *MainController) ImportCases() {
	mc.mainView.ShowFileOpen([]string{".xlsx"}, func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mc.handleError("Import failed", err)
			return
		}
		if reader == nil {
			mc.mainView.SetStatus("Import cancelled.")
			return
		}
		go mc.performImport(reader)
	})
}

// RefreshMap geocodes case locations and renders the marker map.
func (mc *MainController) RefreshMap() {
	ctx, ok := mc.beginTask("Plotting case locations...")
	if !ok {
		mc.mainView.SetStatus("Another task is still running.")
		return
	}
	go mc.performMapRender(ctx)
}

// InspectMapLocation resolves a click on the map image to the nearest
// marker and shows the cases logged at that location.
func (mc *MainController) InspectMapLocation(x, y float64) {
	mc.mu.RLock()
	proj := mc.mapProjection
	locations := mc.mapLocations
	ready := mc.mapReady
	mc.mu.RUnlock()

	if !ready {
		return
	}

	loc, ok := mapview.FindNearest(proj, locations, x, y)
	if !ok {
		return
	}

	var sb strings.Builder
	for _, rec := range loc.Records {
		fmt.Fprintf(&sb, "Case %s\nAgency: %s\nOffense: %s\n\n", rec.CaseNumber, rec.Agency, rec.OffenseType)
	}

	title := fmt.Sprintf("%s, %s (%d case(s))", loc.City, loc.State, len(loc.Records))
	mc.mainView.ShowInfo(title, strings.TrimRight(sb.String(), "\n"))
}

// GenerateChart renders the graph selected in the graph tab.
func (mc *MainController) GenerateChart() {
	filter, graphType, groupBy, err := mc.mainView.ChartView().Selection()
	if err != nil {
		mc.mainView.ShowError("Invalid filter", err)
		return
	}

	ctx, ok := mc.beginTask("Generating graph...")
	if !ok {
		mc.mainView.SetStatus("Another task is still running.")
		return
	}
	go mc.performChartRender(ctx, filter, graphType, groupBy)
}

// SaveChart writes the last rendered graph to a PNG file.
func (mc *MainController) SaveChart() {
	mc.mu.RLock()
	data := mc.chartPNG
	mc.mu.RUnlock()

	if len(data) == 0 {
		mc.mainView.ShowInfo("Save Chart", "Generate a graph before saving it.")
		return
	}

	mc.mainView.ShowFileSave("case_chart.png", []string{".png"}, func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mc.handleError("Chart save failed", err)
			return
		}
		if writer == nil {
			mc.mainView.SetStatus("Chart save cancelled.")
			return
		}
		go mc.performChartSave(writer, data)
	})
}

// SelectLogo picks a logo image and installs it as the report header.
func (mc *MainController) SelectLogo() {
	extensions := []string{".png", ".jpg", ".jpeg", ".gif"}
	mc.mainView.ShowFileOpen(extensions, func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mc.handleError("Logo update failed", err)
			return
		}
		if reader == nil {
			return
		}
		go mc.performLogoUpdate(reader)
	})
}

// ChangePassword prompts for the current and new passwords.
func (mc *MainController) ChangePassword() {
	currentEntry := widget.NewPasswordEntry()
	newEntry := widget.NewPasswordEntry()
	confirmEntry := widget.NewPasswordEntry()

	content := container.NewVBox(
		widget.NewLabel("Current Password"), currentEntry,
		widget.NewLabel("New Password"), newEntry,
		widget.NewLabel("Confirm New Password"), confirmEntry,
	)

	mc.mainView.ShowCustomConfirm("Change Password", "Change", "Cancel", content, func(confirmed bool) {
		if !confirmed {
			return
		}
		if newEntry.Text != confirmEntry.Text {
			mc.mainView.ShowError("Change Password", fmt.Errorf("new passwords do not match"))
			return
		}
		go mc.performPasswordChange(currentEntry.Text, newEntry.Text)
	})
}

// ViewLog shows the tail of the application log in a dialog.
func (mc *MainController) ViewLog() {
	go func() {
		tail, err := mc.settingsService.ReadLogTail(logTailBytes)
		if err != nil {
			mc.handleError("Log read failed", err)
			return
		}
		if strings.TrimSpace(tail) == "" {
			tail = "The application log is empty."
		}

		logLabel := widget.NewLabel(tail)
		logLabel.TextStyle = fyne.TextStyle{Monospace: true}
		logLabel.Wrapping = fyne.TextWrapWord

		content := container.NewVScroll(logLabel)
		content.SetMinSize(fyne.NewSize(700, 420))
		mc.mainView.ShowCustom("Application Log", "Close", content)
	}()
}

// WipeData deletes every case record and the logo after password
// verification and a second confirmation.
func (mc *MainController) WipeData() {
	passwordEntry := widget.NewPasswordEntry()
	content := container.NewVBox(
		widget.NewLabel("This permanently deletes every case record and the header logo."),
		widget.NewLabel("Enter the application password to continue."),
		passwordEntry,
	)

	mc.mainView.ShowCustomConfirm("Clear Application Data", "Continue", "Cancel", content, func(confirmed bool) {
		if !confirmed {
			return
		}
		password := passwordEntry.Text
		message := "Really delete all case records? This cannot be undone."
		mc.mainView.ShowConfirm("Clear Application Data", message, func(really bool) {
			if !really {
				return
			}
			go mc.performWipe(password)
		})
	})
}

// CancelTask cancels the background task currently in flight, if any.
func (mc *MainController) CancelTask() {
	mc.mu.Lock()
	if mc.taskCancelFunc != nil {
		mc.taskCancelFunc()
	}
	mc.mu.Unlock()
}

// Background tasks

// beginTask claims the single background task slot and shows the busy
// indicator. The second return is false while another task still runs.
func (mc *MainController) beginTask(stage string) (context.Context, bool) {
	mc.mu.Lock()
	if mc.taskCancelFunc != nil {
		mc.mu.Unlock()
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	mc.taskCancelFunc = cancel
	mc.mu.Unlock()

	mc.mainView.StartBusy(stage)
	return ctx, true
}

// endTask releases the task slot and hides the busy indicator.
func (mc *MainController) endTask() {
	mc.mu.Lock()
	if mc.taskCancelFunc != nil {
		mc.taskCancelFunc()
		mc.taskCancelFunc = nil
	}
	mc.mu.Unlock()

	mc.mainView.StopBusy()
}

// refreshCaseData reloads records and pushes them to the table, status
// bar, and chart filter dropdowns.
func (mc *MainController) refreshCaseData() error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	records, err := mc.recordService.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load case records: %w", err)
	}
	options, err := mc.recordService.FilterOptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load filter options: %w", err)
	}

	var totalGB float64
	for _, rec := range records {
		totalGB += rec.VolumeSizeGB
	}

	mc.mainView.DataTable().SetRecords(records)
	mc.mainView.ChartView().SetFilterOptions(options.Examiners, options.Investigators, options.Agencies)
	mc.mainView.SetCaseSummary(len(records), totalGB)
	return nil
}

// refreshLogoPreview loads the stored logo into the settings preview.
func (mc *MainController) refreshLogoPreview() {
	if !mc.settingsService.HasLogo() {
		mc.mainView.SettingsView().SetLogoPreview(nil)
		return
	}

	file, err := os.Open(mc.settingsService.LogoPath())
	if err != nil {
		mc.logger.Warning("failed to open logo for preview", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		mc.logger.Warning("failed to decode logo for preview", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	mc.mainView.SettingsView().SetLogoPreview(img)
}

func (mc *MainController) performRecordUpdate(rec models.CaseRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := mc.recordService.UpdateRecord(ctx, &rec); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			mc.mainView.ShowError("Invalid entry", verr)
			return
		}
		mc.handleError("Update failed", err)
		return
	}

	mc.mainView.SetStatus(fmt.Sprintf("Case %s updated.", rec.CaseNumber))
	mc.emitEvent("records_changed", "case updated")
}

func (mc *MainController) performRecordDelete(rec models.CaseRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if _, err := mc.recordService.DeleteRecords(ctx, []int64{rec.ID}); err != nil {
		mc.handleError("Delete failed", err)
		return
	}

	mc.mainView.SetStatus(fmt.Sprintf("Case %s deleted.", rec.CaseNumber))
	mc.emitEvent("records_changed", "case deleted")
}

// exportReport runs the shared export flow: refuse an empty case log,
// ask for a target file, then write in the background.
func (mc *MainController) exportReport(suggestedName, extension string, export func(context.Context, fyne.URIWriteCloser) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()

		count, err := mc.recordService.RecordCount(ctx)
		if err != nil {
			mc.handleError("Export failed", err)
			return
		}
		if count == 0 {
			mc.mainView.ShowInfo("Export", "There are no cases to export.")
			return
		}

		mc.mainView.ShowFileSave(suggestedName, []string{extension}, func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				mc.handleError("Export failed", err)
				return
			}
			if writer == nil {
				mc.mainView.SetStatus("Export cancelled.")
				return
			}
			go mc.performExport(writer, export)
		})
	}()
}

func (mc *MainController) performExport(writer fyne.URIWriteCloser, export func(context.Context, fyne.URIWriteCloser) error) {
	ctx, ok := mc.beginTask("Exporting case log...")
	if !ok {
		mc.mainView.SetStatus("Another task is still running.")
		writer.Close()
		return
	}
	defer mc.endTask()

	name := writer.URI().Name()
	if err := export(ctx, writer); err != nil {
		if ctx.Err() != nil {
			mc.mainView.SetStatus("Export cancelled.")
			return
		}
		mc.handleError("Export failed", err)
		return
	}

	mc.mainView.SetStatus(fmt.Sprintf("Case log exported to %s.", name))
}

func (mc *MainController) performImport(reader fyne.URIReadCloser) {
	ctx, ok := mc.beginTask("Importing cases from workbook...")
	if !ok {
		mc.mainView.SetStatus("Another task is still running.")
		reader.Close()
		return
	}
	defer mc.endTask()

	summary, err := mc.reportService.ImportXLSX(ctx, reader)
	if err != nil {
		if ctx.Err() != nil {
			mc.mainView.SetStatus("Import cancelled.")
			return
		}
		mc.handleError("Import failed", err)
		return
	}

	mc.mainView.ShowInfo("Import Complete", summary.Message())
	mc.emitEvent("records_changed", "workbook import")
}

func (mc *MainController) performMapRender(ctx context.Context) {
	defer mc.endTask()

	locations, failed, err := mc.locationService.MapLocations(ctx)
	if err != nil {
		if ctx.Err() != nil {
			mc.mainView.SetStatus("Map refresh cancelled.")
			return
		}
		mc.handleError("Map refresh failed", err)
		return
	}

	img, proj, err := mc.renderer.Render(ctx, locations)
	if err != nil {
		if ctx.Err() != nil {
			mc.mainView.SetStatus("Map refresh cancelled.")
			return
		}
		mc.handleError("Map refresh failed", err)
		return
	}

	mc.mu.Lock()
	mc.mapProjection = proj
	mc.mapLocations = locations
	mc.mapReady = true
	mc.mu.Unlock()

	status := fmt.Sprintf("%d location(s) plotted.", len(locations))
	if failed > 0 {
		status = fmt.Sprintf("%d location(s) plotted, %d could not be geocoded.", len(locations), failed)
	}

	mapView := mc.mainView.MapView()
	mapView.SetMapImage(img)
	mapView.SetStatus(status)
	mc.mainView.SetStatus("Map refreshed.")
}

func (mc *MainController) performChartRender(ctx context.Context, filter models.Filter, graphType charts.GraphType, groupBy models.Dimension) {
	defer mc.endTask()

	png, err := mc.chartService.RenderChart(ctx, filter, graphType, groupBy)
	if err != nil {
		if errors.Is(err, charts.ErrNoData) {
			mc.mainView.ShowInfo("No Data", "No data available for this selection.")
			return
		}
		if ctx.Err() != nil {
			mc.mainView.SetStatus("Graph generation cancelled.")
			return
		}
		mc.handleError("Graph generation failed", err)
		return
	}

	mc.mu.Lock()
	mc.chartPNG = png
	mc.mu.Unlock()

	mc.mainView.ChartView().SetChartPNG(png)
	mc.mainView.SetStatus(fmt.Sprintf("%s graph generated.", graphType))
}

func (mc *MainController) performChartSave(writer fyne.URIWriteCloser, data []byte) {
	defer writer.Close()

	if _, err := writer.Write(data); err != nil {
		mc.handleError("Chart save failed", err)
		return
	}
	mc.mainView.SetStatus(fmt.Sprintf("Chart saved to %s.", writer.URI().Name()))
}

func (mc *MainController) performLogoUpdate(reader fyne.URIReadCloser) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := mc.settingsService.SetLogo(ctx, reader); err != nil {
		mc.handleError("Logo update failed", err)
		return
	}

	mc.mainView.SetStatus("Header logo updated.")
	mc.emitEvent("logo_changed", nil)
}

func (mc *MainController) performPasswordChange(current, next string) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := mc.settingsService.ChangePassword(ctx, current, next); err != nil {
		if errors.Is(err, services.ErrPasswordMismatch) {
			mc.mainView.ShowError("Change Password", fmt.Errorf("current password is incorrect"))
			return
		}
		mc.handleError("Password change failed", err)
		return
	}

	mc.mainView.ShowInfo("Change Password", "Password updated.")
}

func (mc *MainController) performWipe(password string) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	deleted, err := mc.settingsService.WipeData(ctx, password)
	if err != nil {
		if errors.Is(err, services.ErrPasswordMismatch) {
			mc.mainView.ShowError("Clear Application Data", fmt.Errorf("password is incorrect"))
			return
		}
		mc.handleError("Data wipe failed", err)
		return
	}

	mc.mu.Lock()
	mc.mapReady = false
	mc.mapLocations = nil
	mc.chartPNG = nil
	mc.mu.Unlock()

	mc.mainView.ShowInfo("Clear Application Data", fmt.Sprintf("%d case record(s) deleted.", deleted))
	mc.emitEvent("records_changed", "data wipe")
	mc.emitEvent("logo_changed", nil)
}

// Event system methods

// initializeEventHandlers sets up default event handlers
func (mc *MainController) initializeEventHandlers() {
	mc.addEventListener("records_changed", mc.onRecordsChanged)
	mc.addEventListener("logo_changed", mc.onLogoChanged)
}

// setupViewEventHandlers connects view events to controller methods
func (mc *MainController) setupViewEventHandlers() {
	if mc.mainView == nil {
		return
	}

	entryForm := mc.mainView.EntryForm()
	entryForm.SetSubmitHandler(mc.SubmitCase)
	entryForm.SetClearHandler(mc.ClearEntryForm)

	dataTable := mc.mainView.DataTable()
	dataTable.SetRefreshHandler(mc.RefreshRecords)
	dataTable.SetEditHandler(mc.EditRecord)
	dataTable.SetDeleteHandler(mc.DeleteRecord)
	dataTable.SetExportPDFHandler(mc.ExportPDF)
	dataTable.SetExportXLSXHandler(mc.ExportXLSX)

	mapView := mc.mainView.MapView()
	mapView.SetRefreshHandler(mc.RefreshMap)
	mapView.SetTapHandler(mc.InspectMapLocation)

	chartView := mc.mainView.ChartView()
	chartView.SetGenerateHandler(mc.GenerateChart)
	chartView.SetSaveHandler(mc.SaveChart)

	settingsView := mc.mainView.SettingsView()
	settingsView.SetSelectLogoHandler(mc.SelectLogo)
	settingsView.SetImportHandler(mc.ImportCases)
	settingsView.SetViewLogHandler(mc.ViewLog)
	settingsView.SetChangePasswordHandler(mc.ChangePassword)
	settingsView.SetWipeHandler(mc.WipeData)

	mc.mainView.SetTabSelectedHandler(mc.onTabSelected)
}

// addEventListener adds an event handler for a specific event type
func (mc *MainController) addEventListener(eventType string, handler EventHandler) {
	mc.eventMu.Lock()
	defer mc.eventMu.Unlock()

	mc.eventHandlers[eventType] = append(mc.eventHandlers[eventType], handler)
}

// emitEvent triggers all handlers for a specific event type
func (mc *MainController) emitEvent(eventType string, data interface{}) {
	mc.eventMu.RLock()
	handlers := mc.eventHandlers[eventType]
	mc.eventMu.RUnlock()

	for _, handler := range handlers {
		go func(h EventHandler) {
			if err := h(data); err != nil {
				mc.handleError(fmt.Sprintf("Event handler error (%s)", eventType), err)
			}
		}(handler)
	}
}

// Event handlers

// onRecordsChanged reloads case data after any mutation.
func (mc *MainController) onRecordsChanged(data interface{}) error {
	if reason, ok := data.(string); ok {
		mc.logger.Debug("case data changed", map[string]interface{}{"reason": reason})
	}
	return mc.refreshCaseData()
}

// onLogoChanged reloads the settings tab logo preview.
func (mc *MainController) onLogoChanged(interface{}) error {
	mc.refreshLogoPreview()
	return nil
}

// onTabSelected refreshes tab content that depends on the case log.
func (mc *MainController) onTabSelected(index int) {
	switch index {
	case views.TabData, views.TabGraphs:
		go func() {
			if err := mc.refreshCaseData(); err != nil {
				mc.logger.Warning("failed to refresh case data on tab switch", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()
	}
}

// handleError handles application errors with consistent UI feedback
func (mc *MainController) handleError(title string, err error) {
	mc.logger.Error(title, err, nil)

	if mc.mainView != nil {
		mc.mainView.ShowError(title, err)
	}
}

// Shutdown performs cleanup when the application closes
func (mc *MainController) Shutdown() {
	mc.CancelTask()
	mc.logger.Info("controller shut down", nil)
}
