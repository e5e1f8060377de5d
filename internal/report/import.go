package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"caselog/internal/models"
)

// HeaderError reports a workbook whose header row does not carry exactly the
// expected column set. Nothing is imported from such a file.
type HeaderError struct {
	Missing []string
	Extra   []string
}

func (e *HeaderError) Error() string {
	parts := []string{"workbook columns do not match the case log format"}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected: "+strings.Join(e.Extra, ", "))
	}
	return strings.Join(parts, "; ")
}

// ParseImport reads a case log workbook from r. The header row must contain
// exactly the models.ImportColumns set, in any order and any casing; on a
// mismatch a *HeaderError is returned and no rows are parsed. Data rows
// missing a required field are dropped and counted in skipped.
func ParseImport(r io.Reader) (records []models.CaseRecord, skipped int, err error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no worksheet found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read worksheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("worksheet is empty")
	}

	index, headerErr := matchHeader(rows[0])
	if headerErr != nil {
		return nil, 0, headerErr
	}

	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}

		var rec models.CaseRecord
		for column, idx := range index {
			value := cellValue(row, idx)
			switch column {
			case "start_date", "end_date":
				value = normalizeDate(value)
			}
			rec.SetFieldByColumn(column, value)
		}

		if rec.Validate() != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// matchHeader resolves each expected column to its cell position. Matching
// is by set, so column order and duplicates in the file do not matter.
func matchHeader(header []string) (map[string]int, *HeaderError) {
	expected := make(map[string]bool, len(models.ImportColumns()))
	for _, column := range models.ImportColumns() {
		expected[column] = true
	}

	index := make(map[string]int, len(expected))
	extraSeen := make(map[string]bool)
	var extra []string
	for i, cell := range header {
		name := normalizeHeader(cell)
		if name == "" {
			continue
		}
		if !expected[name] {
			if !extraSeen[name] {
				extraSeen[name] = true
				extra = append(extra, name)
			}
			continue
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, column := range models.ImportColumns() {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(extra)
		return nil, &HeaderError{Missing: missing, Extra: extra}
	}
	return index, nil
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Date layouts seen in the wild when workbooks pass through a spreadsheet
// program before coming back in.
var importDateLayouts = []string{
	"2006-01-02",
	"01-02-2006",
	"1-2-2006",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04:05",
}

// normalizeDate coerces cell text to ISO YYYY-MM-DD. Text that parses as no
// known layout is dropped rather than stored unparsed.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
