package usecase

import "strings"

// NormalizeText canonicalizes text for containment comparison: lower-cases
// it, collapses every run of whitespace to a single space, and trims the
// ends. Both the extracted document text and every rule-text fragment go
// through this before comparison, so matching is insensitive to OCR case
// and whitespace noise. Idempotent.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
