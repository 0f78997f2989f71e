package domain

import "context"

// TextExtractor defines the OCR/text-extraction collaborator boundary.
// Implementations may call a cloud OCR service or extract text locally;
// the core only consumes the text. Entities are optional metadata and may
// be empty. Failures must be returned, not panicked, so the caller can
// skip that document and continue the batch.
type TextExtractor interface {
	ExtractText(ctx context.Context, raw []byte) (text string, entities map[string]string, err error)
}

// CatalogStore defines the persistence boundary for the rule catalog.
// The catalog is loaded once at startup and held as shared state: readers
// take snapshots, and the single writer (AddRule) persists each mutation
// before returning.
type CatalogStore interface {
	// Snapshot returns a deep copy of the catalog safe to read while a
	// concurrent mutation is in flight.
	Snapshot() []ProductRule

	// Warnings reports the entries skipped while loading the catalog.
	Warnings() []string

	// AddRule appends an authored rule for the named product (creating the
	// product entry if absent) and persists the updated catalog.
	AddRule(productName, description, ruleText string, missingApplicationRate bool) error
}

// ReportRenderer turns a batch of per-document results into a downloadable
// document artifact.
type ReportRenderer interface {
	Render(results []DocumentResult) ([]byte, error)
}
