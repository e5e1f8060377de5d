package components

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"caselog/internal/charts"
	"caselog/internal/models"
)

// ChartView holds the graph filters, the type and group-by selectors, and the
// rendered chart for the Graph Analysis tab.
type ChartView struct {
	container *fyne.Container

	examinerSelect     *widget.Select
	investigatorSelect *widget.Select
	agencySelect       *widget.Select
	dateFromEntry      *widget.Entry
	dateToEntry        *widget.Entry
	typeSelect         *widget.Select
	groupBySelect      *widget.Select
	generateButton     *widget.Button
	saveButton         *widget.Button
	chartImage         *canvas.Image

	// Event handlers
	generateHandler func()
	saveHandler     func()
}

// NewChartView creates a new chart view component
func NewChartView() *ChartView {
	cv := &ChartView{}
	cv.createComponents()
	cv.buildLayout()
	cv.setupEventHandlers()
	return cv
}

// createComponents initializes the chart controls
func (cv *ChartView) createComponents() {
	cv.examinerSelect = widget.NewSelect([]string{models.FilterAll}, nil)
	cv.examinerSelect.SetSelected(models.FilterAll)
	cv.investigatorSelect = widget.NewSelect([]string{models.FilterAll}, nil)
	cv.investigatorSelect.SetSelected(models.FilterAll)
	cv.agencySelect = widget.NewSelect([]string{models.FilterAll}, nil)
	cv.agencySelect.SetSelected(models.FilterAll)

	cv.dateFromEntry = widget.NewEntry()
	cv.dateFromEntry.SetPlaceHolder("YYYY-MM-DD")
	cv.dateToEntry = widget.NewEntry()
	cv.dateToEntry.SetPlaceHolder("YYYY-MM-DD")

	var typeOptions []string
	for _, graphType := range charts.GraphTypes() {
		typeOptions = append(typeOptions, string(graphType))
	}
	cv.typeSelect = widget.NewSelect(typeOptions, nil)
	cv.typeSelect.SetSelected(string(charts.GraphCaseCounts))

	var dimensionOptions []string
	for _, dimension := range models.Dimensions() {
		dimensionOptions = append(dimensionOptions, string(dimension))
	}
	cv.groupBySelect = widget.NewSelect(dimensionOptions, nil)
	cv.groupBySelect.SetSelected(string(models.DimensionExaminer))

	cv.generateButton = widget.NewButton("Generate Graph", nil)
	cv.generateButton.Importance = widget.HighImportance

	cv.saveButton = widget.NewButton("Save Chart...", nil)
	cv.saveButton.Disable()

	cv.chartImage = canvas.NewImageFromImage(placeholderImage(charts.DefaultWidth, charts.DefaultHeight))
	cv.chartImage.FillMode = canvas.ImageFillContain
	cv.chartImage.ScaleMode = canvas.ImageScaleSmooth
	cv.chartImage.SetMinSize(fyne.NewSize(640, 360))
}

// buildLayout constructs the Graph Analysis tab layout
func (cv *ChartView) buildLayout() {
	filterRow := container.NewHBox(
		labeledCell("Examiner", cv.examinerSelect),
		labeledCell("Investigator", cv.investigatorSelect),
		labeledCell("Agency", cv.agencySelect),
		labeledCell("From", cv.dateFromEntry),
		labeledCell("To", cv.dateToEntry),
	)

	graphRow := container.NewHBox(
		labeledCell("Graph Type", cv.typeSelect),
		labeledCell("Group By", cv.groupBySelect),
		container.NewVBox(widget.NewLabel(""), cv.generateButton),
		container.NewVBox(widget.NewLabel(""), cv.saveButton),
	)

	cv.container = container.NewBorder(
		container.NewVBox(filterRow, graphRow), // top
		nil,
		nil,
		nil,
		cv.chartImage,
	)
}

// setupEventHandlers connects control events
func (cv *ChartView) setupEventHandlers() {
	cv.typeSelect.OnChanged = func(selected string) {
		if charts.GraphType(selected).UsesGroupBy() {
			cv.groupBySelect.Enable()
		} else {
			cv.groupBySelect.Disable()
		}
	}

	cv.generateButton.OnTapped = func() {
		if cv.generateHandler != nil {
			cv.generateHandler()
		}
	}

	cv.saveButton.OnTapped = func() {
		if cv.saveHandler != nil {
			cv.saveHandler()
		}
	}
}

// Event handler setters

// SetGenerateHandler sets the handler for the generate button
func (cv *ChartView) SetGenerateHandler(handler func()) {
	cv.generateHandler = handler
}

// SetSaveHandler sets the handler for the save chart button
func (cv *ChartView) SetSaveHandler(handler func()) {
	cv.saveHandler = handler
}

// Selection returns the current filter, graph type, and group-by choice.
// Malformed date bounds are rejected before any query runs.
func (cv *ChartView) Selection() (models.Filter, charts.GraphType, models.Dimension, error) {
	filter := models.Filter{
		Examiner:     cv.examinerSelect.Selected,
		Investigator: cv.investigatorSelect.Selected,
		Agency:       cv.agencySelect.Selected,
		DateFrom:     strings.TrimSpace(cv.dateFromEntry.Text),
		DateTo:       strings.TrimSpace(cv.dateToEntry.Text),
	}
	if !models.ValidDate(filter.DateFrom) {
		return models.Filter{}, "", "", fmt.Errorf("from date must use the YYYY-MM-DD format")
	}
	if !models.ValidDate(filter.DateTo) {
		return models.Filter{}, "", "", fmt.Errorf("to date must use the YYYY-MM-DD format")
	}

	return filter, charts.GraphType(cv.typeSelect.Selected), models.Dimension(cv.groupBySelect.Selected), nil
}

// SetFilterOptions refreshes the filter selectors, keeping a still-valid
// selection and falling back to ALL otherwise
func (cv *ChartView) SetFilterOptions(examiners, investigators, agencies []string) {
	fyne.Do(func() {
		updateFilterSelect(cv.examinerSelect, examiners)
		updateFilterSelect(cv.investigatorSelect, investigators)
		updateFilterSelect(cv.agencySelect, agencies)
	})
}

func updateFilterSelect(sel *widget.Select, values []string) {
	options := append([]string{models.FilterAll}, values...)

	current := sel.Selected
	keep := false
	for _, option := range options {
		if option == current {
			keep = true
			break
		}
	}

	sel.SetOptions(options)
	if keep {
		sel.SetSelected(current)
	} else {
		sel.SetSelected(models.FilterAll)
	}
}

// SetChartPNG displays freshly rendered chart bytes and enables saving
func (cv *ChartView) SetChartPNG(data []byte) {
	fyne.Do(func() {
		cv.chartImage.Image = nil
		cv.chartImage.Resource = fyne.NewStaticResource("chart.png", data)
		cv.chartImage.Refresh()
		cv.saveButton.Enable()
	})
}

// GetContainer returns the chart view container
func (cv *ChartView) GetContainer() *fyne.Container {
	return cv.container
}
