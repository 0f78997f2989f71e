package usecase

import (
	"fmt"
	"log"
	"strings"

	"github.com/riddaudit/backend/internal/domain"
)

// ComplianceConfig holds configuration for the compliance service
type ComplianceConfig struct {
	EnableDebugLogging bool
}

// ComplianceService evaluates a document's extracted text against the rule
// catalog and produces one verdict per product mentioned in the document.
type ComplianceService struct {
	enableDebugLogging bool
}

// NewComplianceService creates a new compliance service with the given configuration
func NewComplianceService(config ComplianceConfig) *ComplianceService {
	return &ComplianceService{
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Evaluate walks the catalog in order and builds a verdict for every product
// whose normalized name appears in the normalized document text. Products not
// mentioned in the document are silently excluded; that is expected behavior,
// not an error. Catalog entries without a usable product name are skipped
// with a warning so the batch never aborts on a malformed entry.
//
// A verdict's compliant flag is monotonic: it starts true and stays false
// once any check fails. Verdicts come back in catalog order.
func (s *ComplianceService) Evaluate(documentText string, catalog []domain.ProductRule) ([]domain.ComplianceVerdict, []string) {
	normalizedText := NormalizeText(documentText)

	var verdicts []domain.ComplianceVerdict
	var warnings []string

	for i, product := range catalog {
		normalizedName := NormalizeText(product.Product)
		if normalizedName == "" {
			warnings = append(warnings, fmt.Sprintf("catalog entry %d has no product name, skipped", i))
			continue
		}

		if !strings.Contains(normalizedText, normalizedName) {
			continue
		}

		if s.enableDebugLogging {
			log.Printf("[COMPLIANCE] Evaluating %q", product.Product)
		}

		verdict := domain.ComplianceVerdict{
			Product:   product.Product,
			Compliant: true,
			Details:   []string{},
		}

		verdict.ActualUsageRate = ExtractUsageRate(documentText, product.Product)

		labeled := s.checkApplicationRates(product, normalizedText, &verdict)
		verdict.LabeledUsageRate = strings.Join(labeled, ", ")

		s.checkMaxApplicationRate(product, normalizedText, &verdict)
		s.checkConditions(product, normalizedText, &verdict)
		s.checkAdditionalRules(product, normalizedText, &verdict)

		if s.enableDebugLogging {
			log.Printf("[COMPLIANCE] %q compliant=%v findings=%d", product.Product, verdict.Compliant, len(verdict.Details))
		}

		verdicts = append(verdicts, verdict)
	}

	return verdicts, warnings
}

// checkApplicationRates walks the labeled rates (flat, grouped, or nested),
// collecting every rate string and flagging each one missing from the
// document. Returns the collected labeled rates in catalog order.
func (s *ComplianceService) checkApplicationRates(product domain.ProductRule, normalizedText string, verdict *domain.ComplianceVerdict) []string {
	rates := product.ApplicationRates
	if rates == nil {
		return nil
	}

	var labeled []string

	if rates.Kind == domain.RateFlat {
		labeled = append(labeled, rates.Flat)
		if !strings.Contains(normalizedText, NormalizeText(rates.Flat)) {
			verdict.Compliant = false
			verdict.Details = append(verdict.Details, fmt.Sprintf("Missing application rate: %s", rates.Flat))
		}
		return labeled
	}

	for _, group := range rates.Groups {
		if group.Nested != nil {
			for _, sub := range group.Nested {
				labeled = append(labeled, sub.Rate)
				if !strings.Contains(normalizedText, NormalizeText(sub.Rate)) {
					verdict.Compliant = false
					verdict.Details = append(verdict.Details, fmt.Sprintf("Missing application rate for %s: %s", sub.Category, sub.Rate))
				}
			}
			continue
		}

		labeled = append(labeled, group.Rate)
		if !strings.Contains(normalizedText, NormalizeText(group.Rate)) {
			verdict.Compliant = false
			verdict.Details = append(verdict.Details, fmt.Sprintf("Missing application rate for %s: %s", group.Category, group.Rate))
		}
	}

	return labeled
}

// checkMaxApplicationRate does a textual presence check of the labeled max
// rate, not a numeric comparison against the extracted rate. When the max
// rate is found, an informational finding is still appended for the audit
// trail; it does not count against compliance.
func (s *ComplianceService) checkMaxApplicationRate(product domain.ProductRule, normalizedText string, verdict *domain.ComplianceVerdict) {
	maxRate := product.MaxApplicationRate
	if maxRate == "" {
		return
	}

	verdict.Deviation = fmt.Sprintf("Actual: %s, Labeled: %s", verdict.ActualUsageRate, maxRate)

	if !strings.Contains(normalizedText, NormalizeText(maxRate)) {
		verdict.Compliant = false
		verdict.Details = append(verdict.Details, fmt.Sprintf("Exceeded max application rate: %s, %s", maxRate, verdict.Deviation))
		return
	}
	verdict.Details = append(verdict.Details, fmt.Sprintf("Max application rate within limit: %s, %s", maxRate, verdict.Deviation))
}

// checkConditions flags every required condition whose text is absent from
// the document. Conditions not marked required are informational only.
func (s *ComplianceService) checkConditions(product domain.ProductRule, normalizedText string, verdict *domain.ComplianceVerdict) {
	for _, condition := range product.Conditions {
		if !condition.Required {
			continue
		}
		if !strings.Contains(normalizedText, NormalizeText(condition.Text)) {
			verdict.Compliant = false
			verdict.Details = append(verdict.Details, fmt.Sprintf("Condition not met: %s", condition.Text))
		}
	}
}

// checkAdditionalRules flags every authored rule whose rule_text is absent
// from the document. An empty rule_text matches any document.
func (s *ComplianceService) checkAdditionalRules(product domain.ProductRule, normalizedText string, verdict *domain.ComplianceVerdict) {
	for _, rule := range product.AdditionalRules {
		if !strings.Contains(normalizedText, NormalizeText(rule.RuleText)) {
			verdict.Compliant = false
			verdict.Details = append(verdict.Details, fmt.Sprintf("Rule not met: %s", rule.Description))
		}
	}
}
