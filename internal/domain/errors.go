package domain

import "errors"

var (
	// ErrExtractionFailed is returned when the OCR/text-extraction
	// collaborator cannot produce text for a document
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCatalogUnavailable is returned when the rule catalog cannot be
	// loaded from or persisted to durable storage
	ErrCatalogUnavailable = errors.New("rule catalog unavailable")

	// ErrRenderFailed is returned when the report renderer cannot produce
	// a document artifact
	ErrRenderFailed = errors.New("report rendering failed")
)
