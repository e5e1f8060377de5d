package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  CaseRecord
		missing []string
	}{
		{
			name:   "valid record",
			record: CaseRecord{Examiner: "A. Smith", CaseNumber: "CC-001"},
		},
		{
			name:    "missing examiner",
			record:  CaseRecord{CaseNumber: "CC-001"},
			missing: []string{"examiner"},
		},
		{
			name:    "missing case number",
			record:  CaseRecord{Examiner: "A. Smith"},
			missing: []string{"case_number"},
		},
		{
			name:    "whitespace only counts as missing",
			record:  CaseRecord{Examiner: "   ", CaseNumber: "\t"},
			missing: []string{"examiner", "case_number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if len(tt.missing) == 0 {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.missing, ve.Missing)
		})
	}
}

func TestMapEligible(t *testing.T) {
	assert.True(t, (&CaseRecord{CityOfOffense: "Austin", StateOfOffense: "TX"}).MapEligible())
	assert.False(t, (&CaseRecord{CityOfOffense: "", StateOfOffense: "TX"}).MapEligible())
	assert.False(t, (&CaseRecord{CityOfOffense: "Austin", StateOfOffense: " "}).MapEligible())
	assert.False(t, (&CaseRecord{}).MapEligible())
}

func TestColumnRoundTrip(t *testing.T) {
	rec := CaseRecord{
		CaseNumber:     "CC-042",
		Examiner:       "A. Smith",
		Investigator:   "B. Jones",
		Agency:         "State Police",
		CityOfOffense:  "Austin",
		StateOfOffense: "TX",
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
	}

	var got CaseRecord
	for _, col := range ImportColumns() {
		text, ok := rec.FieldByColumn(col)
		require.True(t, ok, "column %s", col)
		require.True(t, got.SetFieldByColumn(col, text), "column %s", col)
	}

	assert.Equal(t, rec, got)
}

func TestFieldByColumnUnknown(t *testing.T) {
	rec := CaseRecord{}
	_, ok := rec.FieldByColumn("id")
	assert.False(t, ok)
	assert.False(t, rec.SetFieldByColumn("created_at", "2024-01-01"))
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"120", 120, false},
		{"120.5", 120.5, false},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseVolume(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseFlag(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "Yes", "y", "X", "Complete"} {
		assert.True(t, ParseFlag(s), "input %q", s)
	}
	for _, s := range []string{"", "0", "no", "false", "pending"} {
		assert.False(t, ParseFlag(s), "input %q", s)
	}
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate(""))
	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("02/29/2024"))
	assert.False(t, ValidDate("2024-13-01"))
}

func TestLocationKey(t *testing.T) {
	assert.Equal(t, "austin|tx", LocationKey(" Austin ", "TX"))
	assert.Equal(t, LocationKey("AUSTIN", "tx"), LocationKey("austin", "TX"))
}

func TestSortRecords(t *testing.T) {
	records := []CaseRecord{
		{ID: 3, CaseNumber: "CC-003", VolumeSizeGB: 10},
		{ID: 1, CaseNumber: "CC-001", VolumeSizeGB: 300},
		{ID: 2, CaseNumber: "CC-002", VolumeSizeGB: 20},
	}

	// Column 0 is ID, column 9 is volume.
	SortRecords(records, 0, true)
	assert.Equal(t, int64(1), records[0].ID)

	SortRecords(records, 9, false)
	assert.Equal(t, 300.0, records[0].VolumeSizeGB)
	assert.Equal(t, 10.0, records[2].VolumeSizeGB)
}

func TestFilterNormalized(t *testing.T) {
	f := Filter{Examiner: FilterAll, Investigator: " B. Jones ", Agency: "", DateFrom: " 2024-01-01 "}
	norm := f.Normalized()
	assert.Equal(t, "", norm.Examiner)
	assert.Equal(t, "B. Jones", norm.Investigator)
	assert.Equal(t, "2024-01-01", norm.DateFrom)
	assert.True(t, norm.HasDateRange())
	assert.False(t, Filter{}.HasDateRange())
}

func TestDimensionValue(t *testing.T) {
	rec := CaseRecord{
		Examiner:       "A",
		Investigator:   "B",
		Agency:         "C",
		OffenseType:    "D",
		DeviceType:     "E",
		StateOfOffense: "F",
		OS:             "G",
	}
	expected := map[Dimension]string{
		DimensionExaminer:     "A",
		DimensionInvestigator: "B",
		DimensionAgency:       "C",
		DimensionOffenseType:  "D",
		DimensionDeviceType:   "E",
		DimensionState:        "F",
		DimensionOS:           "G",
	}
	for _, dim := range Dimensions() {
		assert.Equal(t, expected[dim], dim.Value(rec), "dimension %s", dim)
	}
}
