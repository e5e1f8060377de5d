package report

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"caselog/internal/models"
)

func buildWorkbook(t *testing.T, header []string, rows [][]string) *bytes.Buffer {
	t.Helper()

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	for i, name := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, file.SetCellValue(sheet, cell, name))
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, err)
			require.NoError(t, file.SetCellValue(sheet, cell, value))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	require.NoError(t, file.Close())
	return &buf
}

func rowFor(rec models.CaseRecord, columns []string) []string {
	row := make([]string, len(columns))
	for i, column := range columns {
		row[i], _ = rec.FieldByColumn(column)
	}
	return row
}

func TestExportImportRoundTrip(t *testing.T) {
	records := []models.CaseRecord{
		{
			CaseNumber:     "CC-001",
			Examiner:       "A. Smith",
			Investigator:   "B. Jones",
			Agency:         "State Police",
			CityOfOffense:  "Gulfport",
			StateOfOffense: "MS",
			StartDate:      "2024-02-01",
			EndDate:        "2024-02-10",
			VolumeSizeGB:   120.5,
			OffenseType:    "Fraud",
			DeviceType:     "Laptop",
			Model:          "XPS 13",
			OS:             "Windows 11",
			DataRecovered:  "Yes",
			FPRComplete:    true,
			Notes:          "imaged twice",
		},
		{
			CaseNumber: "CC-002",
			Examiner:   "C. Doe",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, records))

	parsed, skipped, err := ParseImport(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, records, parsed)
}

func TestParseImportHeaderMismatch(t *testing.T) {
	header := []string{"examiner", "case_number", "favorite_color"}
	buf := buildWorkbook(t, header, [][]string{{"A. Smith", "CC-001", "blue"}})

	_, _, err := ParseImport(buf)
	var headerErr *HeaderError
	require.ErrorAs(t, err, &headerErr)

	assert.Contains(t, headerErr.Missing, "agency")
	assert.Contains(t, headerErr.Missing, "notes")
	assert.Equal(t, []string{"favorite_color"}, headerErr.Extra)
	assert.Contains(t, headerErr.Error(), "favorite_color")
}

func TestParseImportHeaderOrderAndCase(t *testing.T) {
	columns := models.ImportColumns()
	header := make([]string, len(columns))
	for i, column := range columns {
		// Reversed order, padded, shouting case. Still the same set.
		header[len(columns)-1-i] = "  " + strings.ToUpper(column) + " "
	}

	rec := models.CaseRecord{CaseNumber: "CC-001", Examiner: "A. Smith", Notes: "ok"}
	buf := buildWorkbook(t, header, [][]string{rowForHeader(rec, header)})

	parsed, skipped, err := ParseImport(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, parsed, 1)
	assert.Equal(t, "CC-001", parsed[0].CaseNumber)
	assert.Equal(t, "ok", parsed[0].Notes)
}

func rowForHeader(rec models.CaseRecord, header []string) []string {
	row := make([]string, len(header))
	for i, name := range header {
		row[i], _ = rec.FieldByColumn(normalizeHeader(name))
	}
	return row
}

func TestParseImportSkipsIncompleteRows(t *testing.T) {
	columns := models.ImportColumns()
	rows := [][]string{
		rowFor(models.CaseRecord{CaseNumber: "CC-001", Examiner: "A. Smith"}, columns),
		rowFor(models.CaseRecord{CaseNumber: "CC-002"}, columns),
		rowFor(models.CaseRecord{Examiner: "C. Doe"}, columns),
		{},
		rowFor(models.CaseRecord{CaseNumber: "CC-003", Examiner: "C. Doe"}, columns),
	}
	buf := buildWorkbook(t, columns, rows)

	parsed, skipped, err := ParseImport(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped, "rows missing required fields are counted, blank rows are not")
	require.Len(t, parsed, 2)
	assert.Equal(t, "CC-001", parsed[0].CaseNumber)
	assert.Equal(t, "CC-003", parsed[1].CaseNumber)
}

func TestParseImportNormalizesDates(t *testing.T) {
	columns := models.ImportColumns()
	rec := models.CaseRecord{CaseNumber: "CC-001", Examiner: "A. Smith"}
	row := rowFor(rec, columns)
	for i, column := range columns {
		switch column {
		case "start_date":
			row[i] = "01/15/2024"
		case "end_date":
			row[i] = "sometime in spring"
		}
	}
	buf := buildWorkbook(t, columns, [][]string{row})

	parsed, _, err := ParseImport(buf)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "2024-01-15", parsed[0].StartDate)
	assert.Equal(t, "", parsed[0].EndDate, "unparseable dates are dropped")
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-15", "2024-01-15"},
		{"01-15-2024", "2024-01-15"},
		{"1/5/2024", "2024-01-05"},
		{"2024-01-15 10:30:00", "2024-01-15"},
		{"", ""},
		{"yesterday", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeDate(tt.in), "input %q", tt.in)
	}
}

func pngLogo(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestWritePDF(t *testing.T) {
	records := []models.CaseRecord{
		{CaseNumber: "CC-001", Examiner: "A. Smith", Notes: "a note long enough to be truncated in a narrow report cell, which the spreadsheet export keeps in full"},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, records, pngLogo(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "output is a PDF document")
}

func TestWritePDFWithoutLogo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, []models.CaseRecord{{CaseNumber: "CC-001", Examiner: "A. Smith"}}, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDFBadLogo(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, []models.CaseRecord{{CaseNumber: "CC-001", Examiner: "A. Smith"}}, []byte("not an image"))
	require.NoError(t, err, "a corrupt logo must not fail the report")
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDFManyPages(t *testing.T) {
	var records []models.CaseRecord
	for i := 0; i < 120; i++ {
		records = append(records, models.CaseRecord{
			CaseNumber: fmt.Sprintf("CC-%03d", i),
			Examiner:   "A. Smith",
		})
	}

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, records, nil))
	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("/Type /Page")), 1, "long reports paginate")
}
