package domain

import (
	"encoding/json"
	"testing"
)

func TestApplicationRatesUnmarshal(t *testing.T) {
	t.Run("flat string", func(t *testing.T) {
		var rates ApplicationRates
		if err := json.Unmarshal([]byte(`"1 oz per gallon"`), &rates); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if rates.Kind != RateFlat || rates.Flat != "1 oz per gallon" {
			t.Errorf("rates = %+v, want flat %q", rates, "1 oz per gallon")
		}
	})

	t.Run("grouped object preserves key order", func(t *testing.T) {
		raw := `{"Perimeter": "0.5 oz", "Interior": "0.2 oz", "Attic": "0.1 oz"}`
		var rates ApplicationRates
		if err := json.Unmarshal([]byte(raw), &rates); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if rates.Kind != RateGrouped {
			t.Fatalf("Kind = %v, want RateGrouped", rates.Kind)
		}

		wantOrder := []string{"Perimeter", "Interior", "Attic"}
		if len(rates.Groups) != len(wantOrder) {
			t.Fatalf("got %d groups, want %d", len(rates.Groups), len(wantOrder))
		}
		for i, want := range wantOrder {
			if rates.Groups[i].Category != want {
				t.Errorf("Groups[%d].Category = %q, want %q (file order must survive)", i, rates.Groups[i].Category, want)
			}
		}
	})

	t.Run("nested groups", func(t *testing.T) {
		raw := `{"Outdoor": "2 oz", "Indoor": {"Cracks": "0.2 oz", "Voids": "0.3 oz"}}`
		var rates ApplicationRates
		if err := json.Unmarshal([]byte(raw), &rates); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}

		if len(rates.Groups) != 2 {
			t.Fatalf("got %d groups, want 2", len(rates.Groups))
		}
		if rates.Groups[0].Rate != "2 oz" || rates.Groups[0].Nested != nil {
			t.Errorf("Groups[0] = %+v, want leaf rate", rates.Groups[0])
		}
		nested := rates.Groups[1].Nested
		if len(nested) != 2 || nested[0].Category != "Cracks" || nested[1].Rate != "0.3 oz" {
			t.Errorf("Groups[1].Nested = %+v", nested)
		}
	})

	t.Run("non-string scalar keeps its literal form", func(t *testing.T) {
		var rates ApplicationRates
		if err := json.Unmarshal([]byte(`{"Spot": 0.06}`), &rates); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if rates.Groups[0].Rate != "0.06" {
			t.Errorf("Rate = %q, want %q", rates.Groups[0].Rate, "0.06")
		}
	})

	t.Run("rejects array shape", func(t *testing.T) {
		var rates ApplicationRates
		if err := json.Unmarshal([]byte(`["1 oz"]`), &rates); err == nil {
			t.Error("Unmarshal() error = nil, want error for array shape")
		}
	})
}

func TestApplicationRatesMarshalRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"flat", `"1 oz per gallon"`},
		{"grouped", `{"Perimeter":"0.5 oz","Interior":"0.2 oz"}`},
		{"nested", `{"Outdoor":"2 oz","Indoor":{"Cracks":"0.2 oz","Voids":"0.3 oz"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rates ApplicationRates
			if err := json.Unmarshal([]byte(tt.raw), &rates); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			out, err := json.Marshal(rates)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(out) != tt.raw {
				t.Errorf("round trip = %s, want %s", out, tt.raw)
			}
		})
	}
}

func TestConditionsUnmarshal(t *testing.T) {
	raw := `{"soil must be moist": true, "no rain for 24 hours": false, "wind below 10 mph": true}`
	var conditions Conditions
	if err := json.Unmarshal([]byte(raw), &conditions); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := Conditions{
		{Text: "soil must be moist", Required: true},
		{Text: "no rain for 24 hours", Required: false},
		{Text: "wind below 10 mph", Required: true},
	}
	if len(conditions) != len(want) {
		t.Fatalf("got %d conditions, want %d", len(conditions), len(want))
	}
	for i := range want {
		if conditions[i] != want[i] {
			t.Errorf("conditions[%d] = %+v, want %+v", i, conditions[i], want[i])
		}
	}
}

func TestProductRuleUnmarshalFullEntry(t *testing.T) {
	raw := `{
        "Product": "Termidor SC",
        "Application Rates": {"Trenching": "4 gallons per 10 linear feet"},
        "Max Application Rate": "0.06% solution",
        "Conditions": {"soil must be moist": true},
        "Additional Rules": [
            {"description": "Quote the label", "rule_text": "keep children and pets away", "missing_application_rate": false}
        ]
    }`

	var rule ProductRule
	if err := json.Unmarshal([]byte(raw), &rule); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if rule.Product != "Termidor SC" {
		t.Errorf("Product = %q", rule.Product)
	}
	if rule.ApplicationRates == nil || rule.ApplicationRates.Kind != RateGrouped {
		t.Fatalf("ApplicationRates = %+v", rule.ApplicationRates)
	}
	if rule.MaxApplicationRate != "0.06% solution" {
		t.Errorf("MaxApplicationRate = %q", rule.MaxApplicationRate)
	}
	if len(rule.Conditions) != 1 || !rule.Conditions[0].Required {
		t.Errorf("Conditions = %+v", rule.Conditions)
	}
	if len(rule.AdditionalRules) != 1 || rule.AdditionalRules[0].RuleText != "keep children and pets away" {
		t.Errorf("AdditionalRules = %+v", rule.AdditionalRules)
	}
}

func TestProductRuleUnmarshalMinimalEntry(t *testing.T) {
	var rule ProductRule
	if err := json.Unmarshal([]byte(`{"Product": "Zythor"}`), &rule); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if rule.Product != "Zythor" {
		t.Errorf("Product = %q", rule.Product)
	}
	if rule.ApplicationRates != nil || rule.Conditions != nil || rule.AdditionalRules != nil || rule.MaxApplicationRate != "" {
		t.Errorf("optional fields must stay zero: %+v", rule)
	}
}

func TestAddRule(t *testing.T) {
	t.Run("unknown product creates a new entry", func(t *testing.T) {
		entries := AddRule(nil, "New Product", "desc", "rule text", true)
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		entry := entries[0]
		if entry.Product != "New Product" {
			t.Errorf("Product = %q", entry.Product)
		}
		if len(entry.AdditionalRules) != 1 {
			t.Fatalf("AdditionalRules = %+v, want singleton", entry.AdditionalRules)
		}
		rule := entry.AdditionalRules[0]
		if rule.Description != "desc" || rule.RuleText != "rule text" || !rule.MissingApplicationRate {
			t.Errorf("rule = %+v", rule)
		}
	})

	t.Run("second rule appends without duplicating the product", func(t *testing.T) {
		entries := AddRule(nil, "New Product", "first", "a", false)
		entries = AddRule(entries, "New Product", "second", "b", false)

		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1 (no duplicate product)", len(entries))
		}
		if len(entries[0].AdditionalRules) != 2 {
			t.Fatalf("got %d rules, want 2", len(entries[0].AdditionalRules))
		}
		if entries[0].AdditionalRules[1].Description != "second" {
			t.Errorf("rules out of order: %+v", entries[0].AdditionalRules)
		}
	})

	t.Run("product match is exact, not normalized", func(t *testing.T) {
		entries := []ProductRule{{Product: "Termidor SC"}}
		entries = AddRule(entries, "termidor sc", "desc", "text", false)
		if len(entries) != 2 {
			t.Errorf("got %d entries, want 2 (case-different name is a new product)", len(entries))
		}
	})

	t.Run("existing entry without a rules list gets one", func(t *testing.T) {
		entries := []ProductRule{{Product: "Termidor SC", MaxApplicationRate: "0.06% solution"}}
		entries = AddRule(entries, "Termidor SC", "desc", "text", false)
		if len(entries) != 1 || len(entries[0].AdditionalRules) != 1 {
			t.Errorf("entries = %+v", entries)
		}
		if entries[0].MaxApplicationRate != "0.06% solution" {
			t.Errorf("existing fields must be preserved: %+v", entries[0])
		}
	})
}

func TestProductRuleClone(t *testing.T) {
	original := ProductRule{
		Product: "Termidor SC",
		ApplicationRates: &ApplicationRates{
			Kind: RateGrouped,
			Groups: []RateGroup{
				{Category: "Indoor", Nested: []RateEntry{{Category: "Cracks", Rate: "0.2 oz"}}},
			},
		},
		Conditions:      Conditions{{Text: "soil must be moist", Required: true}},
		AdditionalRules: []AdditionalRule{{Description: "d", RuleText: "t"}},
	}

	clone := original.Clone()
	clone.ApplicationRates.Groups[0].Nested[0].Rate = "changed"
	clone.Conditions[0].Required = false
	clone.AdditionalRules[0].Description = "changed"

	if original.ApplicationRates.Groups[0].Nested[0].Rate != "0.2 oz" {
		t.Error("Clone() shares nested rate entries with the original")
	}
	if !original.Conditions[0].Required {
		t.Error("Clone() shares conditions with the original")
	}
	if original.AdditionalRules[0].Description != "d" {
		t.Error("Clone() shares additional rules with the original")
	}
}
