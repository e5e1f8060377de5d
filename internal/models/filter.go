package models

import "strings"

// FilterAll is the selector value meaning "no filter" for a dimension.
const FilterAll = "ALL"

// Filter narrows the record set for chart generation. Empty string (or the
// FilterAll sentinel) on a dimension means no constraint; dates are inclusive
// ISO bounds matched against start_date.
type Filter struct {
	Examiner     string
	Investigator string
	Agency       string
	DateFrom     string
	DateTo       string
}

// Normalized returns a copy with FilterAll and surrounding whitespace
// collapsed to empty strings, ready for query building.
func (f Filter) Normalized() Filter {
	norm := func(s string) string {
		s = strings.TrimSpace(s)
		if s == FilterAll {
			return ""
		}
		return s
	}
	return Filter{
		Examiner:     norm(f.Examiner),
		Investigator: norm(f.Investigator),
		Agency:       norm(f.Agency),
		DateFrom:     strings.TrimSpace(f.DateFrom),
		DateTo:       strings.TrimSpace(f.DateTo),
	}
}

// HasDateRange reports whether either date bound is set.
func (f Filter) HasDateRange() bool {
	return f.DateFrom != "" || f.DateTo != ""
}

// Dimension is a record attribute that charts can group by.
type Dimension string

const (
	DimensionExaminer     Dimension = "Examiner"
	DimensionInvestigator Dimension = "Investigator"
	DimensionAgency       Dimension = "Agency"
	DimensionOffenseType  Dimension = "Offense Type"
	DimensionDeviceType   Dimension = "Device Type"
	DimensionState        Dimension = "State"
	DimensionOS           Dimension = "OS"
)

// Dimensions lists the group-by choices in display order.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionExaminer,
		DimensionInvestigator,
		DimensionAgency,
		DimensionOffenseType,
		DimensionDeviceType,
		DimensionState,
		DimensionOS,
	}
}

// Value extracts the dimension's attribute from a record.
func (d Dimension) Value(r CaseRecord) string {
	switch d {
	case DimensionExaminer:
		return r.Examiner
	case DimensionInvestigator:
		return r.Investigator
	case DimensionAgency:
		return r.Agency
	case DimensionOffenseType:
		return r.OffenseType
	case DimensionDeviceType:
		return r.DeviceType
	case DimensionState:
		return r.StateOfOffense
	case DimensionOS:
		return r.OS
	default:
		return ""
	}
}
