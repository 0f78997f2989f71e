// Package pdftext extracts text from PDF service tickets locally, without
// a cloud OCR service. It uses ledongthuc/pdf (pure Go, no CGO) for text
// extraction and pdfcpu to reject corrupt uploads up front. Scanned
// image-only PDFs yield little or no text here; those need the cloud
// extractor.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/riddaudit/backend/internal/domain"
)

// Extractor implements domain.TextExtractor over local PDF text content.
type Extractor struct {
	pdfConfig *model.Configuration
	maxPages  int
}

// NewExtractor creates a local PDF text extractor.
func NewExtractor() *Extractor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &Extractor{
		pdfConfig: conf,
		maxPages:  50, // caps processing time on pathological uploads
	}
}

// ExtractText validates the PDF and extracts plain text page by page.
// Entities are always empty for local extraction. Errors wrap
// domain.ErrExtractionFailed so the batch can skip this document.
func (e *Extractor) ExtractText(ctx context.Context, raw []byte) (string, map[string]string, error) {
	if len(raw) == 0 {
		return "", nil, fmt.Errorf("%w: empty document", domain.ErrExtractionFailed)
	}

	if err := api.Validate(bytes.NewReader(raw), e.pdfConfig); err != nil {
		return "", nil, fmt.Errorf("%w: invalid PDF: %v", domain.ErrExtractionFailed, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", nil, fmt.Errorf("%w: opening PDF: %v", domain.ErrExtractionFailed, err)
	}

	pageCount := reader.NumPage()
	if pageCount > e.maxPages {
		log.Printf("[PDFTEXT] truncating extraction to %d of %d pages", e.maxPages, pageCount)
		pageCount = e.maxPages
	}

	var builder strings.Builder
	failedPages := 0

	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return "", nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			failedPages++
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// image-only or malformed pages are skipped, not fatal
			failedPages++
			continue
		}

		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}

	if failedPages == pageCount && pageCount > 0 {
		return "", nil, fmt.Errorf("%w: no extractable text on any of %d pages", domain.ErrExtractionFailed, pageCount)
	}

	return builder.String(), map[string]string{}, nil
}
