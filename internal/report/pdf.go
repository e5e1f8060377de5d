package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"caselog/internal/models"
)

const reportTitle = "CaseLog - Case Log Report"

type pdfColumn struct {
	title string
	width float64
	value func(models.CaseRecord) string
}

// Landscape Letter is 279.4mm wide; widths below fill the printable area
// with the notes column taking the slack.
func pdfColumns() []pdfColumn {
	str := func(pick func(models.CaseRecord) string) func(models.CaseRecord) string { return pick }
	return []pdfColumn{
		{"Case #", 17, str(func(r models.CaseRecord) string { return r.CaseNumber })},
		{"Examiner", 17, str(func(r models.CaseRecord) string { return r.Examiner })},
		{"Investigator", 17, str(func(r models.CaseRecord) string { return r.Investigator })},
		{"Agency", 17, str(func(r models.CaseRecord) string { return r.Agency })},
		{"City", 15, str(func(r models.CaseRecord) string { return r.CityOfOffense })},
		{"State", 9, str(func(r models.CaseRecord) string { return r.StateOfOffense })},
		{"Start", 16, str(func(r models.CaseRecord) string { return r.StartDate })},
		{"End", 16, str(func(r models.CaseRecord) string { return r.EndDate })},
		{"Vol (GB)", 13, str(func(r models.CaseRecord) string { return models.FormatVolume(r.VolumeSizeGB) })},
		{"Offense", 18, str(func(r models.CaseRecord) string { return r.OffenseType })},
		{"Device", 14, str(func(r models.CaseRecord) string { return r.DeviceType })},
		{"Model", 16, str(func(r models.CaseRecord) string { return r.Model })},
		{"OS", 13, str(func(r models.CaseRecord) string { return r.OS })},
		{"Recovered", 14, str(func(r models.CaseRecord) string { return r.DataRecovered })},
		{"FPR", 9, str(func(r models.CaseRecord) string { return models.FormatFlag(r.FPRComplete) })},
		{"Notes", 38.4, str(func(r models.CaseRecord) string { return r.Notes })},
	}
}

// WritePDF renders the records as a printable landscape report. A non-nil
// logo is drawn under the title; a logo that fails to decode is left out
// rather than failing the report.
func WritePDF(w io.Writer, records []models.CaseRecord, logo []byte) error {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(false, 14)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 9, reportTitle, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 5, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	drawLogo(pdf, logo)
	if pdf.Err() {
		// A bad logo must not take the whole report down with it.
		pdf.ClearError()
	}

	columns := pdfColumns()
	drawTableHeader(pdf, columns)

	pdf.SetFont("Helvetica", "", 6.5)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetDrawColor(0, 0, 0)

	_, pageHeight := pdf.GetPageSize()
	breakAt := pageHeight - 18

	const rowHeight = 5.0
	for _, rec := range records {
		if pdf.GetY()+rowHeight > breakAt {
			pdf.AddPage()
			drawTableHeader(pdf, columns)
			pdf.SetFont("Helvetica", "", 6.5)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFillColor(245, 245, 220)
		}
		for _, col := range columns {
			text := truncateToWidth(pdf, col.value(rec), col.width-2)
			pdf.CellFormat(col.width, rowHeight, text, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func drawTableHeader(pdf *fpdf.Fpdf, columns []pdfColumn) {
	pdf.SetFont("Helvetica", "B", 6.5)
	pdf.SetTextColor(245, 245, 245)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetDrawColor(0, 0, 0)
	for _, col := range columns {
		pdf.CellFormat(col.width, 6, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

// drawLogo registers the image under a sniffed format and draws it 1.5in
// wide with the height following the aspect ratio.
func drawLogo(pdf *fpdf.Fpdf, logo []byte) {
	if len(logo) == 0 {
		return
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(logo))
	if err != nil {
		return
	}

	options := fpdf.ImageOptions{ImageType: format, ReadDpi: true}
	if pdf.RegisterImageOptionsReader("report-logo", options, bytes.NewReader(logo)) == nil {
		return
	}

	const logoWidth = 38.1
	pdf.ImageOptions("report-logo", pdf.GetX(), pdf.GetY(), logoWidth, 0, true, options, 0, "")
	pdf.Ln(3)
}

// truncateToWidth shortens text to fit a cell, marking the cut with an
// ellipsis. Full field contents stay available through the XLSX export.
func truncateToWidth(pdf *fpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
