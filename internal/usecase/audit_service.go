package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/riddaudit/backend/internal/domain"
)

// AuditServiceConfig holds configuration for the audit service
type AuditServiceConfig struct {
	EnableDebugLogging bool
}

// AuditService orchestrates one batch of uploaded service tickets:
// extract text per document, evaluate it against a catalog snapshot, and
// collect the per-document results.
type AuditService struct {
	extractor  domain.TextExtractor
	catalog    domain.CatalogStore
	compliance *ComplianceService
}

// NewAuditService creates a new audit service with dependencies
func NewAuditService(extractor domain.TextExtractor, catalog domain.CatalogStore, config AuditServiceConfig) *AuditService {
	return &AuditService{
		extractor: extractor,
		catalog:   catalog,
		compliance: NewComplianceService(ComplianceConfig{
			EnableDebugLogging: config.EnableDebugLogging,
		}),
	}
}

// BatchResult holds everything one batch produced: successful per-document
// results, per-file errors for documents whose extraction failed, and
// warnings about catalog entries that were skipped.
type BatchResult struct {
	Results  []domain.DocumentResult `json:"results"`
	Errors   []string                `json:"errors,omitempty"`
	Warnings []string                `json:"warnings,omitempty"`
}

// ProcessBatch runs every document through extraction and compliance
// evaluation. A failed extraction abandons that document with an error
// attributable to its filename; the rest of the batch still processes.
// The catalog snapshot is taken once up front and treated as read-only
// for the whole batch.
func (s *AuditService) ProcessBatch(ctx context.Context, docs []domain.Document, technician, date string) (*BatchResult, error) {
	if technician == "" {
		return nil, fmt.Errorf("%w: technician name is required", domain.ErrInvalidRequest)
	}

	snapshot := s.catalog.Snapshot()

	batch := &BatchResult{}
	batch.Warnings = append(batch.Warnings, s.catalog.Warnings()...)

	seenWarnings := make(map[string]bool)
	for _, w := range batch.Warnings {
		seenWarnings[w] = true
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		text, _, err := s.extractor.ExtractText(ctx, doc.Data)
		if err != nil {
			log.Printf("[AUDIT] extraction failed for %s: %v", doc.Name, err)
			batch.Errors = append(batch.Errors, fmt.Sprintf("%s: %v", doc.Name, err))
			continue
		}

		verdicts, warnings := s.compliance.Evaluate(text, snapshot)
		for _, w := range warnings {
			if !seenWarnings[w] {
				seenWarnings[w] = true
				batch.Warnings = append(batch.Warnings, w)
			}
		}

		batch.Results = append(batch.Results, domain.DocumentResult{
			File:              doc.Name,
			Technician:        technician,
			Date:              date,
			OCRText:           text,
			ComplianceResults: verdicts,
		})
	}

	return batch, nil
}
