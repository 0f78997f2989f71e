package domain

// RateNotFound is the sentinel reported when no usage-rate pattern matched
// the document text.
const RateNotFound = "Not found"

// ComplianceVerdict is the per-product result of evaluating one document
// against the rule catalog. Compliant starts true and flips to false on the
// first failing check; Details accumulates human-readable findings in
// evaluation order.
type ComplianceVerdict struct {
	Product          string   `json:"product"`
	Compliant        bool     `json:"compliant"`
	Details          []string `json:"details"`
	ActualUsageRate  string   `json:"actual_usage_rate"`
	LabeledUsageRate string   `json:"labeled_usage_rate"`
	Deviation        string   `json:"deviation"`
}

// Document is one uploaded service ticket awaiting extraction.
type Document struct {
	Name string
	Data []byte
}

// DocumentResult bundles one document's extracted text and verdicts together
// with the submission metadata, in the shape the report renderer consumes.
type DocumentResult struct {
	File              string              `json:"file"`
	Technician        string              `json:"technician"`
	Date              string              `json:"date"`
	OCRText           string              `json:"ocr_text"`
	ComplianceResults []ComplianceVerdict `json:"compliance_results"`
}
