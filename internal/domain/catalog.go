package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProductRule is one catalog entry: the compliance rules for a single product.
// JSON field names match the catalog file format used by the audit tool
// (an array of these objects). Product is the only required field; every
// other field is optional and its check is skipped when absent.
type ProductRule struct {
	Product            string            `json:"Product"`
	ApplicationRates   *ApplicationRates `json:"Application Rates,omitempty"`
	MaxApplicationRate string            `json:"Max Application Rate,omitempty"`
	Conditions         Conditions        `json:"Conditions,omitempty"`
	AdditionalRules    []AdditionalRule  `json:"Additional Rules,omitempty"`
}

// AdditionalRule is a free-form authored rule: the rule_text must appear
// (after normalization) in the document text for the product to comply.
type AdditionalRule struct {
	Description            string `json:"description"`
	RuleText               string `json:"rule_text"`
	MissingApplicationRate bool   `json:"missing_application_rate"`
}

// RateKind discriminates the shape of a product's labeled application rates.
type RateKind int

const (
	// RateFlat is a single rate string for the whole product.
	RateFlat RateKind = iota
	// RateGrouped is a set of named rate categories, each holding either a
	// rate string or a nested sub-category map (two levels max).
	RateGrouped
)

// RateEntry is a leaf pairing of a category name with its rate string.
type RateEntry struct {
	Category string
	Rate     string
}

// RateGroup is one named group inside a grouped rate set. Either Rate is set
// (leaf group) or Nested holds the sub-category entries.
type RateGroup struct {
	Category string
	Rate     string
	Nested   []RateEntry
}

// ApplicationRates is the tagged union of labeled-rate shapes found in
// catalog files: a bare string, or an object whose values are strings or
// one more level of objects. Decoding preserves the key order of the file
// so that evaluation output is deterministic and mirrors the catalog.
type ApplicationRates struct {
	Kind   RateKind
	Flat   string
	Groups []RateGroup
}

// UnmarshalJSON dispatches on the JSON shape and keeps object key order.
func (r *ApplicationRates) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = ApplicationRates{Kind: RateFlat, Flat: s}
		return nil
	case '{':
		groups, err := decodeRateGroups(trimmed)
		if err != nil {
			return err
		}
		*r = ApplicationRates{Kind: RateGrouped, Groups: groups}
		return nil
	default:
		return fmt.Errorf("application rates must be a string or an object, got %s", preview(trimmed))
	}
}

// MarshalJSON re-emits the shape the entry was decoded from.
func (r ApplicationRates) MarshalJSON() ([]byte, error) {
	if r.Kind == RateFlat {
		return json.Marshal(r.Flat)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range r.Groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Category)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if g.Nested == nil {
			val, err := json.Marshal(g.Rate)
			if err != nil {
				return nil, err
			}
			buf.Write(val)
			continue
		}
		buf.WriteByte('{')
		for j, sub := range g.Nested {
			if j > 0 {
				buf.WriteByte(',')
			}
			subKey, err := json.Marshal(sub.Category)
			if err != nil {
				return nil, err
			}
			subVal, err := json.Marshal(sub.Rate)
			if err != nil {
				return nil, err
			}
			buf.Write(subKey)
			buf.WriteByte(':')
			buf.Write(subVal)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeRateGroups walks an object token-by-token so the catalog file's key
// order survives (Go maps would shuffle it and make verdict details jitter
// between runs).
func decodeRateGroups(data []byte) ([]RateGroup, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}

	var groups []RateGroup
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		category, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}

		value := bytes.TrimSpace(raw)
		switch {
		case len(value) > 0 && value[0] == '{':
			nested, err := decodeRateEntries(value)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", category, err)
			}
			groups = append(groups, RateGroup{Category: category, Nested: nested})
		default:
			groups = append(groups, RateGroup{Category: category, Rate: scalarToString(value)})
		}
	}
	return groups, nil
}

// decodeRateEntries decodes the inner sub-category → rate object, in order.
func decodeRateEntries(data []byte) ([]RateEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var entries []RateEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		category, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		entries = append(entries, RateEntry{Category: category, Rate: scalarToString(bytes.TrimSpace(raw))})
	}
	return entries, nil
}

// Conditions maps condition text to whether it is required for compliance.
// Stored as an ordered slice so findings come out in catalog-file order.
type Conditions []Condition

// Condition is one required-or-not condition phrase.
type Condition struct {
	Text     string
	Required bool
}

// UnmarshalJSON decodes a JSON object of condition → bool, preserving order.
// Non-boolean values are tolerated and treated as not required.
func (c *Conditions) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("conditions must be an object, got %s", preview(trimmed))
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return err
	}

	var conditions Conditions
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		text, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		var required bool
		_ = json.Unmarshal(raw, &required)
		conditions = append(conditions, Condition{Text: text, Required: required})
	}
	*c = conditions
	return nil
}

// MarshalJSON emits the conditions back as an ordered JSON object.
func (c Conditions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cond := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cond.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if cond.Required {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// scalarToString renders a JSON scalar as the text the evaluator compares
// against. Strings are unquoted; numbers and booleans keep their literal form.
func scalarToString(raw []byte) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// preview truncates raw JSON for error messages.
func preview(data []byte) string {
	const max = 40
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}

// Clone returns a deep copy of the rule so catalog snapshots handed to
// evaluations cannot alias slices that a later mutation appends to.
func (p ProductRule) Clone() ProductRule {
	clone := p
	if p.ApplicationRates != nil {
		rates := ApplicationRates{Kind: p.ApplicationRates.Kind, Flat: p.ApplicationRates.Flat}
		if p.ApplicationRates.Groups != nil {
			rates.Groups = make([]RateGroup, len(p.ApplicationRates.Groups))
			for i, g := range p.ApplicationRates.Groups {
				cg := RateGroup{Category: g.Category, Rate: g.Rate}
				if g.Nested != nil {
					cg.Nested = append([]RateEntry(nil), g.Nested...)
				}
				rates.Groups[i] = cg
			}
		}
		clone.ApplicationRates = &rates
	}
	if p.Conditions != nil {
		clone.Conditions = append(Conditions(nil), p.Conditions...)
	}
	if p.AdditionalRules != nil {
		clone.AdditionalRules = append([]AdditionalRule(nil), p.AdditionalRules...)
	}
	return clone
}

// AddRule appends an authored rule to the first entry whose Product equals
// productName (exact match, not normalized). When no entry matches, a new
// product entry is created holding only the product name and the new rule.
// Additive only: existing rules are never updated or removed.
func AddRule(entries []ProductRule, productName, description, ruleText string, missingApplicationRate bool) []ProductRule {
	rule := AdditionalRule{
		Description:            description,
		RuleText:               ruleText,
		MissingApplicationRate: missingApplicationRate,
	}

	for i := range entries {
		if entries[i].Product == productName {
			entries[i].AdditionalRules = append(entries[i].AdditionalRules, rule)
			return entries
		}
	}

	return append(entries, ProductRule{
		Product:         productName,
		AdditionalRules: []AdditionalRule{rule},
	})
}
