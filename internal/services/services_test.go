package services_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"caselog/internal/charts"
	"caselog/internal/config"
	"caselog/internal/geocode"
	"caselog/internal/models"
	"caselog/internal/report"
	"caselog/internal/services"
	"caselog/internal/store"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warning(string, map[string]interface{})      {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:", nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testPaths(t *testing.T) config.Paths {
	t.Helper()
	return config.PathsIn(t.TempDir())
}

func seedRecord(t *testing.T, s *store.Store, rec models.CaseRecord) models.CaseRecord {
	t.Helper()
	_, err := s.InsertRecord(context.Background(), &rec)
	require.NoError(t, err)
	return rec
}

func TestRecordServiceAddAndList(t *testing.T) {
	s := openStore(t)
	rs := services.NewRecordService(s, nopLogger{})
	ctx := context.Background()

	rec := models.CaseRecord{CaseNumber: "CC-001", Examiner: "A. Smith"}
	id, err := rs.AddRecord(ctx, &rec)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	records, err := rs.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CC-001", records[0].CaseNumber)

	var ve *models.ValidationError
	_, err = rs.AddRecord(ctx, &models.CaseRecord{CaseNumber: "CC-002"})
	assert.True(t, errors.As(err, &ve), "validation failures pass through")
}

func TestRecordServiceFilterOptions(t *testing.T) {
	s := openStore(t)
	rs := services.NewRecordService(s, nopLogger{})
	ctx := context.Background()

	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-001", Examiner: "B. Zulu", Agency: "FBI"})
	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-002", Examiner: "A. Alpha", Agency: "FBI"})

	opts, err := rs.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A. Alpha", "B. Zulu"}, opts.Examiners)
	assert.Equal(t, []string{"FBI"}, opts.Agencies)
	assert.Empty(t, opts.Investigators)
}

type fakeGeocoder struct {
	calls  int
	points map[string]models.GeoPoint
}

func (f *fakeGeocoder) Geocode(_ context.Context, city, state string) (models.GeoPoint, error) {
	f.calls++
	point, ok := f.points[models.LocationKey(city, state)]
	if !ok {
		return models.GeoPoint{}, geocode.ErrNotFound
	}
	return point, nil
}

func TestLocationServiceGroupsAndGeocodesOnce(t *testing.T) {
	s := openStore(t)
	gc := &fakeGeocoder{points: map[string]models.GeoPoint{
		"gulfport|ms": {Lat: 30.37, Lng: -89.09},
		"jackson|ms":  {Lat: 32.30, Lng: -90.18},
	}}
	ls := services.NewLocationService(s, gc, nopLogger{})
	ctx := context.Background()

	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-001", Examiner: "A", CityOfOffense: "Gulfport", StateOfOffense: "MS"})
	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-002", Examiner: "A", CityOfOffense: "gulfport", StateOfOffense: "ms"})
	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-003", Examiner: "A", CityOfOffense: "Jackson", StateOfOffense: "MS"})
	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-004", Examiner: "A"})

	locations, failed, err := ls.MapLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 2, gc.calls, "one geocode call per distinct place")
	require.Len(t, locations, 2, "records without a location stay off the map")

	assert.Equal(t, "Gulfport", locations[0].City)
	assert.Len(t, locations[0].Records, 2, "same place groups under one marker")
	assert.Equal(t, "Jackson", locations[1].City)
	assert.Len(t, locations[1].Records, 1)
}

func TestLocationServiceSkipsFailedLookups(t *testing.T) {
	s := openStore(t)
	gc := &fakeGeocoder{points: map[string]models.GeoPoint{
		"jackson|ms": {Lat: 32.30, Lng: -90.18},
	}}
	ls := services.NewLocationService(s, gc, nopLogger{})

	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-001", Examiner: "A", CityOfOffense: "Atlantis", StateOfOffense: "ZZ"})
	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-002", Examiner: "A", CityOfOffense: "Jackson", StateOfOffense: "MS"})

	locations, failed, err := ls.MapLocations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	require.Len(t, locations, 1)
	assert.Equal(t, "Jackson", locations[0].City)
}

func TestChartServiceRenderChart(t *testing.T) {
	s := openStore(t)
	cs := services.NewChartService(s, nopLogger{})
	ctx := context.Background()

	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-001", Examiner: "A. Smith", VolumeSizeGB: 120})
	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-002", Examiner: "C. Doe", VolumeSizeGB: 64})

	png, err := cs.RenderChart(ctx, models.Filter{}, charts.GraphCaseCounts, models.DimensionExaminer)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = cs.RenderChart(ctx, models.Filter{Examiner: "Nobody"}, charts.GraphCaseCounts, models.DimensionExaminer)
	assert.ErrorIs(t, err, charts.ErrNoData)
}

func TestReportServiceExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()

	source := openStore(t)
	sourcePaths := testPaths(t)
	sourceReports := services.NewReportService(source, sourcePaths.LogoPath, nopLogger{})

	seedRecord(t, source, models.CaseRecord{CaseNumber: "CC-001", Examiner: "A. Smith", Agency: "FBI", VolumeSizeGB: 120.5})
	seedRecord(t, source, models.CaseRecord{CaseNumber: "CC-002", Examiner: "C. Doe"})

	var workbook bytes.Buffer
	require.NoError(t, sourceReports.ExportXLSXToWriter(ctx, &workbook))
	exported := workbook.Bytes()

	target := openStore(t)
	targetReports := services.NewReportService(target, testPaths(t).LogoPath, nopLogger{})

	summary, err := targetReports.ImportXLSXFromReader(ctx, bytes.NewReader(exported))
	require.NoError(t, err)
	assert.NotEmpty(t, summary.BatchID)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 0, summary.Skipped)

	// Same file again: nothing changed, nothing rewritten.
	summary, err = targetReports.ImportXLSXFromReader(ctx, bytes.NewReader(exported))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 2, summary.Unchanged)

	// Change one record at the source and re-export; the import updates
	// just that case.
	records, err := source.ListRecords(ctx)
	require.NoError(t, err)
	records[0].Agency = "State Police"
	require.NoError(t, source.UpdateRecord(ctx, &records[0]))

	workbook.Reset()
	require.NoError(t, sourceReports.ExportXLSXToWriter(ctx, &workbook))

	summary, err = targetReports.ImportXLSXFromReader(ctx, &workbook)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Unchanged)

	updated, err := target.FindByCaseNumber(ctx, "CC-001")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "State Police", updated.Agency)
}

func TestReportServiceImportRejectsBadHeader(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	rs := services.NewReportService(s, testPaths(t).LogoPath, nopLogger{})

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	require.NoError(t, file.SetCellValue(sheet, "A1", "examiner"))
	require.NoError(t, file.SetCellValue(sheet, "B1", "case_number"))
	require.NoError(t, file.SetCellValue(sheet, "A2", "A. Smith"))
	require.NoError(t, file.SetCellValue(sheet, "B2", "CC-001"))
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	require.NoError(t, file.Close())

	_, err := rs.ImportXLSXFromReader(ctx, &buf)
	var headerErr *report.HeaderError
	require.ErrorAs(t, err, &headerErr)

	count, err := s.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "a rejected file must write nothing")
}

func TestReportServiceExportPDF(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	paths := testPaths(t)
	rs := services.NewReportService(s, paths.LogoPath, nopLogger{})

	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-001", Examiner: "A. Smith"})

	var buf bytes.Buffer
	require.NoError(t, rs.ExportPDFToWriter(ctx, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestImportSummaryMessage(t *testing.T) {
	summary := services.ImportSummary{Imported: 2, Updated: 1, Unchanged: 3, Skipped: 1, Failed: 0}
	msg := summary.Message()
	assert.Contains(t, msg, "Processed 7 row(s)")
	assert.Contains(t, msg, "Imported 2 new case(s)")
	assert.Contains(t, msg, "Updated 1 existing case(s)")
	assert.NotContains(t, msg, "failed to save")
}

func TestSettingsServicePassword(t *testing.T) {
	s := openStore(t)
	ss := services.NewSettingsService(s, testPaths(t), nopLogger{})
	ctx := context.Background()

	require.NoError(t, ss.EnsureDefaults(ctx))
	assert.NoError(t, ss.VerifyPassword(ctx, services.DefaultPassword))
	assert.ErrorIs(t, ss.VerifyPassword(ctx, "wrong"), services.ErrPasswordMismatch)

	// Seeding twice must not rotate the stored pair.
	require.NoError(t, ss.EnsureDefaults(ctx))
	assert.NoError(t, ss.VerifyPassword(ctx, services.DefaultPassword))

	assert.ErrorIs(t, ss.ChangePassword(ctx, "wrong", "hunter2"), services.ErrPasswordMismatch)
	assert.NoError(t, ss.VerifyPassword(ctx, services.DefaultPassword), "a failed change leaves the old password working")

	assert.Error(t, ss.ChangePassword(ctx, services.DefaultPassword, "   "), "blank passwords are rejected")

	require.NoError(t, ss.ChangePassword(ctx, services.DefaultPassword, "hunter2"))
	assert.NoError(t, ss.VerifyPassword(ctx, "hunter2"))
	assert.ErrorIs(t, ss.VerifyPassword(ctx, services.DefaultPassword), services.ErrPasswordMismatch)
}

func TestSettingsServiceLogo(t *testing.T) {
	s := openStore(t)
	paths := testPaths(t)
	ss := services.NewSettingsService(s, paths, nopLogger{})
	ctx := context.Background()

	err := ss.SetLogoFromReader(ctx, "notes.txt", strings.NewReader("hello"))
	assert.ErrorIs(t, err, services.ErrUnsupportedLogoFormat)
	assert.False(t, ss.HasLogo())

	require.NoError(t, ss.SetLogoFromReader(ctx, "badge.PNG", strings.NewReader("fake image bytes")))
	assert.True(t, ss.HasLogo())

	saved, err := os.ReadFile(paths.LogoPath)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(saved), "logo bytes are copied verbatim")

	stored, err := s.Setting(ctx, "logo_path")
	require.NoError(t, err)
	assert.Equal(t, paths.LogoPath, stored)

	require.NoError(t, ss.SetLogoFromReader(ctx, "badge.jpeg", strings.NewReader("other bytes")))
	saved, err = os.ReadFile(paths.LogoPath)
	require.NoError(t, err)
	assert.Equal(t, "other bytes", string(saved))
}

func TestSettingsServiceWipe(t *testing.T) {
	s := openStore(t)
	paths := testPaths(t)
	ss := services.NewSettingsService(s, paths, nopLogger{})
	ctx := context.Background()

	require.NoError(t, ss.EnsureDefaults(ctx))
	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-001", Examiner: "A. Smith"})
	seedRecord(t, s, models.CaseRecord{CaseNumber: "CC-002", Examiner: "C. Doe"})
	require.NoError(t, ss.SetLogoFromReader(ctx, "badge.png", strings.NewReader("logo")))

	_, err := ss.WipeData(ctx, "wrong")
	assert.ErrorIs(t, err, services.ErrPasswordMismatch)

	count, err := s.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "a failed wipe deletes nothing")
	assert.True(t, ss.HasLogo())

	deleted, err := ss.WipeData(ctx, services.DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err = s.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.False(t, ss.HasLogo())

	stored, err := s.Setting(ctx, "logo_path")
	require.NoError(t, err)
	assert.Empty(t, stored, "the logo path setting is cleared")

	assert.NoError(t, ss.VerifyPassword(ctx, services.DefaultPassword), "the password survives a wipe")
}

func TestSettingsServiceReadLogTail(t *testing.T) {
	s := openStore(t)
	paths := testPaths(t)
	ss := services.NewSettingsService(s, paths, nopLogger{})

	text, err := ss.ReadLogTail(1024)
	require.NoError(t, err)
	assert.Empty(t, text, "a missing log file reads as empty")

	lines := "first line\nsecond line\nthird line\n"
	require.NoError(t, os.WriteFile(paths.LogPath, []byte(lines), 0o644))

	text, err = ss.ReadLogTail(1024)
	require.NoError(t, err)
	assert.Equal(t, lines, text)

	text, err = ss.ReadLogTail(int64(len("second line\nthird line\n") + 3))
	require.NoError(t, err)
	assert.Equal(t, "second line\nthird line\n", text, "partial leading line is dropped")
}
