package components

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"caselog/internal/models"
)

// EntryForm collects the fields of one case record. The same component backs
// the New Case Entry tab and the edit dialog opened from the data table.
type EntryForm struct {
	container *fyne.Container
	fields    fyne.CanvasObject

	examinerEntry       *widget.Entry
	investigatorEntry   *widget.Entry
	agencyEntry         *widget.Entry
	caseNumberEntry     *widget.Entry
	volumeEntry         *widget.Entry
	offenseTypeEntry    *widget.Entry
	cityEntry           *widget.Entry
	stateSelect         *widget.Select
	deviceTypeEntry     *widget.SelectEntry
	modelEntry          *widget.Entry
	osEntry             *widget.Entry
	dataRecoveredSelect *widget.Select
	fprCheck            *widget.Check
	notesEntry          *widget.Entry
	startDateEntry      *widget.Entry
	endDateEntry        *widget.Entry
	submitButton        *widget.Button
	clearButton         *widget.Button

	// Event handlers
	submitHandler func()
	clearHandler  func()

	// State
	editingID int64
}

// NewEntryForm creates a new entry form component
func NewEntryForm() *EntryForm {
	form := &EntryForm{}
	form.createComponents()
	form.buildLayout()
	form.setupEventHandlers()
	return form
}

// createComponents initializes all form fields
func (ef *EntryForm) createComponents() {
	ef.examinerEntry = widget.NewEntry()
	ef.investigatorEntry = widget.NewEntry()
	ef.agencyEntry = widget.NewEntry()
	ef.caseNumberEntry = widget.NewEntry()

	ef.volumeEntry = widget.NewEntry()
	ef.volumeEntry.SetPlaceHolder("0")

	ef.offenseTypeEntry = widget.NewEntry()
	ef.cityEntry = widget.NewEntry()
	ef.stateSelect = widget.NewSelect(models.StateAbbreviations(), nil)
	ef.deviceTypeEntry = widget.NewSelectEntry(models.DeviceTypes())
	ef.modelEntry = widget.NewEntry()
	ef.osEntry = widget.NewEntry()
	ef.dataRecoveredSelect = widget.NewSelect(models.DataRecoveredOptions(), nil)
	ef.fprCheck = widget.NewCheck("", nil)

	ef.notesEntry = widget.NewMultiLineEntry()
	ef.notesEntry.Wrapping = fyne.TextWrapWord
	ef.notesEntry.SetMinRowsVisible(5)

	ef.startDateEntry = widget.NewEntry()
	ef.startDateEntry.SetPlaceHolder("YYYY-MM-DD")
	ef.endDateEntry = widget.NewEntry()
	ef.endDateEntry.SetPlaceHolder("YYYY-MM-DD")

	ef.submitButton = widget.NewButton("Submit Case", nil)
	ef.submitButton.Importance = widget.HighImportance
	ef.clearButton = widget.NewButton("Clear Form", nil)
}

// buildLayout constructs the two-column field grid with notes and dates below
func (ef *EntryForm) buildLayout() {
	fieldGrid := container.NewGridWithColumns(2,
		labeledCell("Examiner", ef.examinerEntry),
		labeledCell("Investigator", ef.investigatorEntry),
		labeledCell("Agency", ef.agencyEntry),
		labeledCell("Case Number", ef.caseNumberEntry),
		labeledCell("Volume Size (GB)", ef.volumeEntry),
		labeledCell("Type of Offense", ef.offenseTypeEntry),
		labeledCell("City of Offense", ef.cityEntry),
		labeledCell("State of Offense", ef.stateSelect),
		labeledCell("Device Type", ef.deviceTypeEntry),
		labeledCell("Model", ef.modelEntry),
		labeledCell("OS", ef.osEntry),
		labeledCell("Data Recovered", ef.dataRecoveredSelect),
		labeledCell("FPR Complete", ef.fprCheck),
	)

	dateRow := container.NewGridWithColumns(2,
		labeledCell("Start Date (YYYY-MM-DD)", ef.startDateEntry),
		labeledCell("End Date (YYYY-MM-DD)", ef.endDateEntry),
	)

	ef.fields = container.NewVBox(
		fieldGrid,
		labeledCell("Notes", ef.notesEntry),
		dateRow,
	)

	buttonRow := container.NewHBox(ef.submitButton, ef.clearButton)

	content := container.NewVBox(
		widget.NewRichTextFromMarkdown("## New Case Entry"),
		ef.fields,
		buttonRow,
	)

	ef.container = container.NewStack(container.NewVScroll(content))
}

// setupEventHandlers connects button events
func (ef *EntryForm) setupEventHandlers() {
	ef.submitButton.OnTapped = func() {
		if ef.submitHandler != nil {
			ef.submitHandler()
		}
	}

	ef.clearButton.OnTapped = func() {
		if ef.clearHandler != nil {
			ef.clearHandler()
		}
	}
}

// labeledCell stacks a field under its label, matching the form grid style
func labeledCell(label string, field fyne.CanvasObject) *fyne.Container {
	return container.NewVBox(widget.NewLabel(label), field)
}

// Event handler setters

// SetSubmitHandler sets the handler for the submit button
func (ef *EntryForm) SetSubmitHandler(handler func()) {
	ef.submitHandler = handler
}

// SetClearHandler sets the handler for the clear button
func (ef *EntryForm) SetClearHandler(handler func()) {
	ef.clearHandler = handler
}

// Record builds a case record from the current field values. Volume and date
// text are validated here; required-field checks happen in the service.
func (ef *EntryForm) Record() (models.CaseRecord, error) {
	volume, err := models.ParseVolume(ef.volumeEntry.Text)
	if err != nil {
		return models.CaseRecord{}, fmt.Errorf("volume size must be a number")
	}
	if !models.ValidDate(ef.startDateEntry.Text) {
		return models.CaseRecord{}, fmt.Errorf("start date must use the YYYY-MM-DD format")
	}
	if !models.ValidDate(ef.endDateEntry.Text) {
		return models.CaseRecord{}, fmt.Errorf("end date must use the YYYY-MM-DD format")
	}

	return models.CaseRecord{
		ID:             ef.editingID,
		CaseNumber:     strings.TrimSpace(ef.caseNumberEntry.Text),
		Examiner:       strings.TrimSpace(ef.examinerEntry.Text),
		Investigator:   strings.TrimSpace(ef.investigatorEntry.Text),
		Agency:         strings.TrimSpace(ef.agencyEntry.Text),
		CityOfOffense:  strings.TrimSpace(ef.cityEntry.Text),
		StateOfOffense: ef.stateSelect.Selected,
		StartDate:      strings.TrimSpace(ef.startDateEntry.Text),
		EndDate:        strings.TrimSpace(ef.endDateEntry.Text),
		VolumeSizeGB:   volume,
		OffenseType:    strings.TrimSpace(ef.offenseTypeEntry.Text),
		DeviceType:     strings.TrimSpace(ef.deviceTypeEntry.Text),
		Model:          strings.TrimSpace(ef.modelEntry.Text),
		OS:             strings.TrimSpace(ef.osEntry.Text),
		DataRecovered:  ef.dataRecoveredSelect.Selected,
		FPRComplete:    ef.fprCheck.Checked,
		Notes:          strings.TrimSpace(ef.notesEntry.Text),
	}, nil
}

// SetRecord pre-fills the form for editing an existing case
func (ef *EntryForm) SetRecord(rec models.CaseRecord) {
	fyne.Do(func() {
		ef.editingID = rec.ID
		ef.examinerEntry.SetText(rec.Examiner)
		ef.investigatorEntry.SetText(rec.Investigator)
		ef.agencyEntry.SetText(rec.Agency)
		ef.caseNumberEntry.SetText(rec.CaseNumber)
		ef.volumeEntry.SetText(models.FormatVolume(rec.VolumeSizeGB))
		ef.offenseTypeEntry.SetText(rec.OffenseType)
		ef.cityEntry.SetText(rec.CityOfOffense)
		ef.stateSelect.SetSelected(rec.StateOfOffense)
		ef.deviceTypeEntry.SetText(rec.DeviceType)
		ef.modelEntry.SetText(rec.Model)
		ef.osEntry.SetText(rec.OS)
		ef.dataRecoveredSelect.SetSelected(rec.DataRecovered)
		ef.fprCheck.SetChecked(rec.FPRComplete)
		ef.notesEntry.SetText(rec.Notes)
		ef.startDateEntry.SetText(rec.StartDate)
		ef.endDateEntry.SetText(rec.EndDate)
		ef.submitButton.SetText("Update Case")
	})
}

// Clear resets every field and leaves the form in insert mode
func (ef *EntryForm) Clear() {
	fyne.Do(func() {
		ef.editingID = 0
		ef.examinerEntry.SetText("")
		ef.investigatorEntry.SetText("")
		ef.agencyEntry.SetText("")
		ef.caseNumberEntry.SetText("")
		ef.volumeEntry.SetText("")
		ef.offenseTypeEntry.SetText("")
		ef.cityEntry.SetText("")
		ef.stateSelect.SetSelected("")
		ef.deviceTypeEntry.SetText("")
		ef.modelEntry.SetText("")
		ef.osEntry.SetText("")
		ef.dataRecoveredSelect.SetSelected("")
		ef.fprCheck.SetChecked(false)
		ef.notesEntry.SetText("")
		ef.startDateEntry.SetText("")
		ef.endDateEntry.SetText("")
		ef.submitButton.SetText("Submit Case")
	})
}

// EditingID returns the id of the record being edited, zero in insert mode
func (ef *EntryForm) EditingID() int64 {
	return ef.editingID
}

// FieldsContainer returns the fields without title or buttons, for embedding
// in the edit dialog
func (ef *EntryForm) FieldsContainer() fyne.CanvasObject {
	return ef.fields
}

// GetContainer returns the entry form container
func (ef *EntryForm) GetContainer() *fyne.Container {
	return ef.container
}
