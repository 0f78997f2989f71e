package usecase

import (
	"regexp"

	"github.com/riddaudit/backend/internal/domain"
)

// usageRatePatterns are tried in order against the raw document text; the
// first match wins even if a later pattern would also match. Earlier
// patterns carry explicit labels ("Concentrated Amount", "Application
// Rate") and are more trustworthy than the bare rate-per-area form.
var usageRatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Concentrated Amount:\s*([\d.]+)\s*(grams?|g|gallons?|gal|cups?|c|ounces?|oz|fl\s*oz)`),
	regexp.MustCompile(`(?i)Application Rate:\s*([\d.]+)\s*(grams?|g|gallons?|gal|cups?|c|ounces?|oz|fl\s*oz)`),
	regexp.MustCompile(`(?i)([\d.]+)\s*(grams?|g|gallons?|gal|cups?|c|ounces?|oz|fl\s*oz)\s*per\s*([\d.]+)\s*(square\s*feet|sq\s*ft|sqft|cubic\s*feet|cu\s*ft)`),
}

// ExtractUsageRate scans the raw (non-normalized) document text for a
// reported application or concentration rate and returns it as a
// space-joined "value unit" string. For the rate-per-area pattern only the
// leading value and unit are returned, not the per-area denominator.
// Returns domain.RateNotFound when no pattern matches.
//
// productName does not currently scope the search: extraction is global per
// document, so a ticket mentioning several products reports the same rate
// for each of them.
func ExtractUsageRate(text, productName string) string {
	for _, pattern := range usageRatePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		return match[1] + " " + match[2]
	}
	return domain.RateNotFound
}
