package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"github.com/google/uuid"

	"caselog/internal/logger"
	"caselog/internal/models"
	"caselog/internal/report"
	"caselog/internal/store"
)

// ReportService handles PDF/XLSX export and XLSX import of the case log.
type ReportService struct {
	store    *store.Store
	logoPath string
	logger   logger.Logger
}

// NewReportService creates a new report service
func NewReportService(st *store.Store, logoPath string, log logger.Logger) *ReportService {
	return &ReportService{
		store:    st,
		logoPath: logoPath,
		logger:   log,
	}
}

// ExportPDF writes the full case log as a PDF report to a save dialog target.
func (rs *ReportService) ExportPDF(ctx context.Context, writer fyne.URIWriteCloser) error {
	defer writer.Close()
	return rs.ExportPDFToWriter(ctx, writer)
}

// ExportPDFToWriter writes the PDF report to a generic writer.
func (rs *ReportService) ExportPDFToWriter(ctx context.Context, w io.Writer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	records, err := rs.store.ListRecords(ctx)
	if err != nil {
		return err
	}

	if err := report.WritePDF(w, records, rs.readLogo()); err != nil {
		return err
	}

	rs.logger.Info("pdf report exported", map[string]interface{}{"records": len(records)})
	return nil
}

// ExportXLSX writes the full case log as a workbook to a save dialog target.
func (rs *ReportService) ExportXLSX(ctx context.Context, writer fyne.URIWriteCloser) error {
	defer writer.Close()
	return rs.ExportXLSXToWriter(ctx, writer)
}

// ExportXLSXToWriter writes the workbook to a generic writer.
func (rs *ReportService) ExportXLSXToWriter(ctx context.Context, w io.Writer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	records, err := rs.store.ListRecords(ctx)
	if err != nil {
		return err
	}

	if err := report.WriteXLSX(w, records); err != nil {
		return err
	}

	rs.logger.Info("xlsx report exported", map[string]interface{}{"records": len(records)})
	return nil
}

// readLogo loads the stored logo for the report header. A missing logo file
// just means no header image.
func (rs *ReportService) readLogo() []byte {
	data, err := os.ReadFile(rs.logoPath)
	if err != nil {
		if !os.IsNotExist(err) {
			rs.logger.Warning("failed to read logo for report", map[string]interface{}{
				"path":  rs.logoPath,
				"error": err.Error(),
			})
		}
		return nil
	}
	return data
}

// ImportSummary tallies what an XLSX import did. Every data row lands in
// exactly one of the counters.
type ImportSummary struct {
	BatchID   string
	Imported  int
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Total is the number of data rows the workbook carried.
func (s ImportSummary) Total() int {
	return s.Imported + s.Updated + s.Unchanged + s.Skipped + s.Failed
}

// Message renders the summary for the import-complete dialog.
func (s ImportSummary) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d row(s).", s.Total())
	if s.Imported > 0 {
		fmt.Fprintf(&b, "\nImported %d new case(s).", s.Imported)
	}
	if s.Updated > 0 {
		fmt.Fprintf(&b, "\nUpdated %d existing case(s).", s.Updated)
	}
	if s.Unchanged > 0 {
		fmt.Fprintf(&b, "\nSkipped %d case(s) with no changes.", s.Unchanged)
	}
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "\nSkipped %d row(s) missing required fields.", s.Skipped)
	}
	if s.Failed > 0 {
		fmt.Fprintf(&b, "\n%d row(s) failed to save; see the application log.", s.Failed)
	}
	return b.String()
}

// ImportXLSX reads a workbook chosen in an open dialog into the case log.
func (rs *ReportService) ImportXLSX(ctx context.Context, reader fyne.URIReadCloser) (ImportSummary, error) {
	defer reader.Close()
	return rs.ImportXLSXFromReader(ctx, reader)
}

// ImportXLSXFromReader merges workbook rows into the case log. A header
// mismatch rejects the whole file before anything is written. Rows whose
// case number already exists update that record when the file carries
// changes; new case numbers are inserted.
func (rs *ReportService) ImportXLSXFromReader(ctx context.Context, r io.Reader) (ImportSummary, error) {
	summary := ImportSummary{BatchID: uuid.NewString()}

	select {
	case <-ctx.Done():
		return summary, ctx.Err()
	default:
	}

	records, skipped, err := report.ParseImport(r)
	if err != nil {
		return summary, err
	}
	summary.Skipped = skipped

	for i := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		rec := &records[i]
		existing, err := rs.store.FindByCaseNumber(ctx, rec.CaseNumber)
		if err != nil {
			summary.Failed++
			rs.logger.Error("import row lookup failed", err, map[string]interface{}{
				"batch_id":    summary.BatchID,
				"case_number": rec.CaseNumber,
			})
			continue
		}

		if existing == nil {
			if _, err := rs.store.InsertRecord(ctx, rec); err != nil {
				summary.Failed++
				rs.logger.Error("import row insert failed", err, map[string]interface{}{
					"batch_id":    summary.BatchID,
					"case_number": rec.CaseNumber,
				})
				continue
			}
			summary.Imported++
			continue
		}

		if !recordChanged(existing, rec) {
			summary.Unchanged++
			continue
		}

		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		if err := rs.store.UpdateRecord(ctx, rec); err != nil {
			summary.Failed++
			rs.logger.Error("import row update failed", err, map[string]interface{}{
				"batch_id":    summary.BatchID,
				"case_number": rec.CaseNumber,
			})
			continue
		}
		summary.Updated++
	}

	rs.logger.Info("xlsx import finished", map[string]interface{}{
		"batch_id":  summary.BatchID,
		"imported":  summary.Imported,
		"updated":   summary.Updated,
		"unchanged": summary.Unchanged,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	})
	return summary, nil
}

// recordChanged compares the importable fields of two records.
func recordChanged(a, b *models.CaseRecord) bool {
	for _, column := range models.ImportColumns() {
		av, _ := a.FieldByColumn(column)
		bv, _ := b.FieldByColumn(column)
		if av != bv {
			return true
		}
	}
	return false
}
