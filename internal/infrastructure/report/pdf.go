// Package report renders audit results into a downloadable PDF.
package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/riddaudit/backend/internal/domain"
)

// PDFRenderer implements domain.ReportRenderer using gofpdf.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDF report renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render produces one letter-format PDF covering every document in the
// batch: a title page section per document with technician/date, then a
// block per product verdict with its findings.
func (r *PDFRenderer) Render(results []domain.DocumentResult) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "Letter", "")
	doc.SetAutoPageBreak(true, 15)

	if len(results) == 0 {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 12)
		doc.MultiCell(0, 6, "No audit results.", "", "L", false)
	}

	for _, result := range results {
		doc.AddPage()

		doc.SetFont("Helvetica", "B", 16)
		doc.MultiCell(0, 8, fmt.Sprintf("Compliance Report for %s", result.File), "", "L", false)
		doc.Ln(2)

		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 6, fmt.Sprintf("Technician: %s | Date: %s", result.Technician, result.Date), "", "L", false)
		doc.Ln(4)

		for _, verdict := range result.ComplianceResults {
			doc.SetFont("Helvetica", "B", 13)
			doc.MultiCell(0, 7, fmt.Sprintf("Product: %s", verdict.Product), "", "L", false)

			doc.SetFont("Helvetica", "", 11)
			doc.MultiCell(0, 6, fmt.Sprintf("Compliant: %s", yesNo(verdict.Compliant)), "", "L", false)
			doc.MultiCell(0, 6, fmt.Sprintf("Labeled Usage Rate: %s", verdict.LabeledUsageRate), "", "L", false)
			doc.MultiCell(0, 6, fmt.Sprintf("Actual Usage Rate: %s", verdict.ActualUsageRate), "", "L", false)
			doc.MultiCell(0, 6, fmt.Sprintf("Deviation: %s", verdict.Deviation), "", "L", false)

			doc.SetFont("Helvetica", "B", 11)
			for _, detail := range verdict.Details {
				doc.MultiCell(0, 6, fmt.Sprintf("- %s", detail), "", "L", false)
			}
			doc.Ln(4)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
