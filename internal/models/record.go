package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// CaseRecord is one forensic case's logged metadata. Field tags drive sqlx
// scanning; column names match the case_log table and the import header set.
type CaseRecord struct {
	ID             int64   `db:"id"`
	CaseNumber     string  `db:"case_number"`
	Examiner       string  `db:"examiner"`
	Investigator   string  `db:"investigator"`
	Agency         string  `db:"agency"`
	CityOfOffense  string  `db:"city_of_offense"`
	StateOfOffense string  `db:"state_of_offense"`
	StartDate      string  `db:"start_date"`
	EndDate        string  `db:"end_date"`
	VolumeSizeGB   float64 `db:"volume_size_gb"`
	OffenseType    string  `db:"offense_type"`
	DeviceType     string  `db:"device_type"`
	Model          string  `db:"model"`
	OS             string  `db:"os"`
	DataRecovered  string  `db:"data_recovered"`
	FPRComplete    bool    `db:"fpr_complete"`
	Notes          string  `db:"notes"`
	CreatedAt      string  `db:"created_at"`
}

// Validate checks the required fields. Examiner and case number must be
// non-empty after trimming; everything else is optional.
func (r *CaseRecord) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Examiner) == "" {
		missing = append(missing, "examiner")
	}
	if strings.TrimSpace(r.CaseNumber) == "" {
		missing = append(missing, "case_number")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// MapEligible reports whether the record carries enough location data for a
// map marker. Records missing city or state are silently excluded.
func (r *CaseRecord) MapEligible() bool {
	return strings.TrimSpace(r.CityOfOffense) != "" && strings.TrimSpace(r.StateOfOffense) != ""
}

// ImportColumns is the exact header set an import workbook must carry, in
// canonical order. Exports write the same header row so an exported workbook
// is always re-importable.
func ImportColumns() []string {
	return []string{
		"examiner",
		"investigator",
		"agency",
		"case_number",
		"start_date",
		"volume_size_gb",
		"offense_type",
		"end_date",
		"device_type",
		"model",
		"os",
		"data_recovered",
		"fpr_complete",
		"notes",
		"city_of_offense",
		"state_of_offense",
	}
}

// FieldByColumn returns the record field for an import/export column name as
// display text.
func (r *CaseRecord) FieldByColumn(column string) (string, bool) {
	switch column {
	case "examiner":
		return r.Examiner, true
	case "investigator":
		return r.Investigator, true
	case "agency":
		return r.Agency, true
	case "case_number":
		return r.CaseNumber, true
	case "start_date":
		return r.StartDate, true
	case "volume_size_gb":
		return FormatVolume(r.VolumeSizeGB), true
	case "offense_type":
		return r.OffenseType, true
	case "end_date":
		return r.EndDate, true
	case "device_type":
		return r.DeviceType, true
	case "model":
		return r.Model, true
	case "os":
		return r.OS, true
	case "data_recovered":
		return r.DataRecovered, true
	case "fpr_complete":
		return FormatFlag(r.FPRComplete), true
	case "notes":
		return r.Notes, true
	case "city_of_offense":
		return r.CityOfOffense, true
	case "state_of_offense":
		return r.StateOfOffense, true
	default:
		return "", false
	}
}

// SetFieldByColumn assigns cell text to the record field for a column name.
// Numeric and flag columns are parsed leniently; unparseable volume text
// degrades to zero rather than failing the row.
func (r *CaseRecord) SetFieldByColumn(column, value string) bool {
	value = strings.TrimSpace(value)
	switch column {
	case "examiner":
		r.Examiner = value
	case "investigator":
		r.Investigator = value
	case "agency":
		r.Agency = value
	case "case_number":
		r.CaseNumber = value
	case "start_date":
		r.StartDate = value
	case "volume_size_gb":
		r.VolumeSizeGB, _ = ParseVolume(value)
	case "offense_type":
		r.OffenseType = value
	case "end_date":
		r.EndDate = value
	case "device_type":
		r.DeviceType = value
	case "model":
		r.Model = value
	case "os":
		r.OS = value
	case "data_recovered":
		r.DataRecovered = value
	case "fpr_complete":
		r.FPRComplete = ParseFlag(value)
	case "notes":
		r.Notes = value
	case "city_of_offense":
		r.CityOfOffense = value
	case "state_of_offense":
		r.StateOfOffense = value
	default:
		return false
	}
	return true
}

// ParseVolume converts volume text to gigabytes. Empty text means zero.
func ParseVolume(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// FormatVolume renders a volume for display and export.
func FormatVolume(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseFlag interprets the truthy spellings that show up in spreadsheets.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "x", "complete":
		return true
	default:
		return false
	}
}

// FormatFlag renders a flag for export.
func FormatFlag(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// ValidDate accepts empty or ISO YYYY-MM-DD date text.
func ValidDate(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return err == nil
}

// SortRecords stably re-orders records by a table column index with the given
// direction. Column indexes follow TableColumns order.
func SortRecords(records []CaseRecord, column int, ascending bool) {
	cols := TableColumns()
	if column < 0 || column >= len(cols) {
		return
	}
	less := cols[column].Less
	sort.SliceStable(records, func(i, j int) bool {
		if ascending {
			return less(records[i], records[j])
		}
		return less(records[j], records[i])
	})
}

// TableColumn describes one column of the data table view.
type TableColumn struct {
	Title string
	Width float32
	Value func(CaseRecord) string
	Less  func(a, b CaseRecord) bool
}

func textColumn(title string, width float32, value func(CaseRecord) string) TableColumn {
	return TableColumn{
		Title: title,
		Width: width,
		Value: value,
		Less: func(a, b CaseRecord) bool {
			return strings.ToLower(value(a)) < strings.ToLower(value(b))
		},
	}
}

// TableColumns returns the full column set of the data table, in display
// order.
func TableColumns() []TableColumn {
	cols := []TableColumn{
		{
			Title: "ID",
			Width: 50,
			Value: func(r CaseRecord) string { return strconv.FormatInt(r.ID, 10) },
			Less:  func(a, b CaseRecord) bool { return a.ID < b.ID },
		},
		textColumn("Case #", 110, func(r CaseRecord) string { return r.CaseNumber }),
		textColumn("Examiner", 120, func(r CaseRecord) string { return r.Examiner }),
		textColumn("Investigator", 120, func(r CaseRecord) string { return r.Investigator }),
		textColumn("Agency", 140, func(r CaseRecord) string { return r.Agency }),
		textColumn("City", 110, func(r CaseRecord) string { return r.CityOfOffense }),
		textColumn("State", 60, func(r CaseRecord) string { return r.StateOfOffense }),
		textColumn("Start Date", 95, func(r CaseRecord) string { return r.StartDate }),
		textColumn("End Date", 95, func(r CaseRecord) string { return r.EndDate }),
		{
			Title: "Volume (GB)",
			Width: 90,
			Value: func(r CaseRecord) string { return FormatVolume(r.VolumeSizeGB) },
			Less:  func(a, b CaseRecord) bool { return a.VolumeSizeGB < b.VolumeSizeGB },
		},
		textColumn("Offense", 130, func(r CaseRecord) string { return r.OffenseType }),
		textColumn("Device", 110, func(r CaseRecord) string { return r.DeviceType }),
		textColumn("Model", 110, func(r CaseRecord) string { return r.Model }),
		textColumn("OS", 90, func(r CaseRecord) string { return r.OS }),
		textColumn("Recovered", 85, func(r CaseRecord) string { return r.DataRecovered }),
		{
			Title: "FPR",
			Width: 55,
			Value: func(r CaseRecord) string { return FormatFlag(r.FPRComplete) },
			Less:  func(a, b CaseRecord) bool { return !a.FPRComplete && b.FPRComplete },
		},
		textColumn("Notes", 180, func(r CaseRecord) string { return r.Notes }),
		textColumn("Created", 150, func(r CaseRecord) string { return r.CreatedAt }),
	}
	return cols
}

// StateAbbreviations lists the US state selector options for the entry form.
func StateAbbreviations() []string {
	return []string{
		"", "AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
		"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
		"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
		"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
		"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY", "DC",
	}
}

// DeviceTypes lists the common device classes offered by the entry form.
func DeviceTypes() []string {
	return []string{
		"", "Computer", "Laptop", "Mobile Phone", "Tablet", "Hard Drive",
		"USB Drive", "SD Card", "Server", "DVR", "Drone", "Other",
	}
}

// DataRecoveredOptions lists the selector values for the recovery outcome.
func DataRecoveredOptions() []string {
	return []string{"", "Yes", "No"}
}
