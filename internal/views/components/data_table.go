package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"caselog/internal/models"
)

// DataTable lists every case with sortable columns, row selection, and the
// refresh/export/edit/delete actions of the View Data tab.
type DataTable struct {
	container   *fyne.Container
	table       *widget.Table
	statusLabel *widget.Label

	refreshButton    *widget.Button
	exportPDFButton  *widget.Button
	exportXLSXButton *widget.Button
	editButton       *widget.Button
	deleteButton     *widget.Button

	// Event handlers
	refreshHandler    func()
	editHandler       func(models.CaseRecord)
	deleteHandler     func(models.CaseRecord)
	exportPDFHandler  func()
	exportXLSXHandler func()

	// State
	columns       []models.TableColumn
	records       []models.CaseRecord
	sortColumn    int
	sortAscending bool
	selectedRow   int
}

// NewDataTable creates a new data table component
func NewDataTable() *DataTable {
	dt := &DataTable{
		columns:       models.TableColumns(),
		sortColumn:    0,
		sortAscending: true,
		selectedRow:   -1,
	}
	dt.createComponents()
	dt.buildLayout()
	dt.setupEventHandlers()
	return dt
}

// createComponents initializes the table and action buttons
func (dt *DataTable) createComponents() {
	dt.refreshButton = widget.NewButton("Refresh Data", nil)
	dt.refreshButton.Importance = widget.HighImportance

	dt.exportPDFButton = widget.NewButton("Export All as PDF", nil)
	dt.exportXLSXButton = widget.NewButton("Export All as XLSX", nil)

	dt.editButton = widget.NewButton("Edit Selected", nil)
	dt.editButton.Disable()

	dt.deleteButton = widget.NewButton("Delete Selected", nil)
	dt.deleteButton.Importance = widget.DangerImportance
	dt.deleteButton.Disable()

	dt.statusLabel = widget.NewLabel("Cases: 0")

	dt.table = widget.NewTable(
		func() (int, int) {
			return len(dt.records), len(dt.columns)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id.Row >= 0 && id.Row < len(dt.records) && id.Col >= 0 && id.Col < len(dt.columns) {
				label.SetText(dt.columns[id.Col].Value(dt.records[id.Row]))
			}
		},
	)

	dt.table.ShowHeaderRow = true
	dt.table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton("", nil)
	}
	dt.table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		if id.Col < 0 || id.Col >= len(dt.columns) {
			return
		}
		button := obj.(*widget.Button)
		col := id.Col
		button.SetText(dt.headerTitle(col))
		button.OnTapped = func() {
			dt.sortBy(col)
		}
	}

	for i, col := range dt.columns {
		dt.table.SetColumnWidth(i, col.Width)
	}

	dt.table.OnSelected = func(id widget.TableCellID) {
		dt.selectedRow = id.Row
		dt.editButton.Enable()
		dt.deleteButton.Enable()
	}
}

// buildLayout constructs the View Data tab layout
func (dt *DataTable) buildLayout() {
	buttonRow := container.NewHBox(
		dt.refreshButton,
		dt.exportPDFButton,
		dt.exportXLSXButton,
		dt.editButton,
		dt.deleteButton,
	)

	dt.container = container.NewBorder(
		buttonRow,      // top
		dt.statusLabel, // bottom
		nil,
		nil,
		dt.table,
	)
}

// setupEventHandlers connects button events
func (dt *DataTable) setupEventHandlers() {
	dt.refreshButton.OnTapped = func() {
		if dt.refreshHandler != nil {
			dt.refreshHandler()
		}
	}

	dt.exportPDFButton.OnTapped = func() {
		if dt.exportPDFHandler != nil {
			dt.exportPDFHandler()
		}
	}

	dt.exportXLSXButton.OnTapped = func() {
		if dt.exportXLSXHandler != nil {
			dt.exportXLSXHandler()
		}
	}

	dt.editButton.OnTapped = func() {
		rec, ok := dt.SelectedRecord()
		if ok && dt.editHandler != nil {
			dt.editHandler(rec)
		}
	}

	dt.deleteButton.OnTapped = func() {
		rec, ok := dt.SelectedRecord()
		if ok && dt.deleteHandler != nil {
			dt.deleteHandler(rec)
		}
	}
}

// headerTitle renders a column title with the current sort direction marker
func (dt *DataTable) headerTitle(col int) string {
	title := dt.columns[col].Title
	if col != dt.sortColumn {
		return title
	}
	if dt.sortAscending {
		return title + " ▲"
	}
	return title + " ▼"
}

// sortBy re-sorts by a column, toggling the direction on a repeat click
func (dt *DataTable) sortBy(col int) {
	if col == dt.sortColumn {
		dt.sortAscending = !dt.sortAscending
	} else {
		dt.sortColumn = col
		dt.sortAscending = true
	}
	models.SortRecords(dt.records, dt.sortColumn, dt.sortAscending)
	dt.table.Refresh()
}

// Event handler setters

// SetRefreshHandler sets the handler for the refresh button
func (dt *DataTable) SetRefreshHandler(handler func()) {
	dt.refreshHandler = handler
}

// SetEditHandler sets the handler invoked with the selected record
func (dt *DataTable) SetEditHandler(handler func(models.CaseRecord)) {
	dt.editHandler = handler
}

// SetDeleteHandler sets the handler invoked with the selected record
func (dt *DataTable) SetDeleteHandler(handler func(models.CaseRecord)) {
	dt.deleteHandler = handler
}

// SetExportPDFHandler sets the handler for the PDF export button
func (dt *DataTable) SetExportPDFHandler(handler func()) {
	dt.exportPDFHandler = handler
}

// SetExportXLSXHandler sets the handler for the XLSX export button
func (dt *DataTable) SetExportXLSXHandler(handler func()) {
	dt.exportXLSXHandler = handler
}

// SetRecords replaces the table contents, keeping the current sort order
func (dt *DataTable) SetRecords(records []models.CaseRecord) {
	fyne.Do(func() {
		dt.records = records
		models.SortRecords(dt.records, dt.sortColumn, dt.sortAscending)
		dt.selectedRow = -1
		dt.table.UnselectAll()
		dt.editButton.Disable()
		dt.deleteButton.Disable()

		var totalGB float64
		for _, rec := range records {
			totalGB += rec.VolumeSizeGB
		}
		dt.statusLabel.SetText(fmt.Sprintf("Cases: %d | Total Volume: %s GB",
			len(records), models.FormatVolume(totalGB)))

		dt.table.Refresh()
	})
}

// SelectedRecord returns the currently selected record, if any
func (dt *DataTable) SelectedRecord() (models.CaseRecord, bool) {
	if dt.selectedRow < 0 || dt.selectedRow >= len(dt.records) {
		return models.CaseRecord{}, false
	}
	return dt.records[dt.selectedRow], true
}

// RecordCount returns the number of rows currently shown
func (dt *DataTable) RecordCount() int {
	return len(dt.records)
}

// GetContainer returns the data table container
func (dt *DataTable) GetContainer() *fyne.Container {
	return dt.container
}

// Refresh refreshes the table display
func (dt *DataTable) Refresh() {
	fyne.Do(func() {
		dt.table.Refresh()
	})
}
