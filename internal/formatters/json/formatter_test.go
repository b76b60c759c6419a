// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"testing"

	"contact-scan/internal/detector"
	"contact-scan/internal/formatters"
)

func TestFormatProducesValidJSON(t *testing.T) {
	f := NewFormatter()
	report := formatters.Report{
		Result: detector.ScanResult{TotalContacts: 2, SensitiveCount: 1},
		Contacts: []detector.ClassifiedContact{
			{
				Contact:             detector.Contact{ID: 1, Name: "Card", Numbers: []string{"4111111111111111"}},
				IsSensitive:         true,
				SensitiveType:       "PAYMENT_CARD",
				SensitiveConfidence: 95,
			},
			{
				Contact: detector.Contact{ID: 2, Name: "Clean", Numbers: []string{"08012345678"}},
			},
		},
	}

	out, err := f.Format(report, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	var decoded struct {
		Summary  detector.ScanResult `json:"summary"`
		Findings []struct {
			ID              int64    `json:"id"`
			SensitiveType   string   `json:"sensitive_type"`
			ConfidenceLevel string   `json:"confidence_level"`
			Numbers         []string `json:"numbers"`
		} `json:"findings"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}

	if decoded.Summary.TotalContacts != 2 {
		t.Errorf("summary total = %d, want 2", decoded.Summary.TotalContacts)
	}
	if len(decoded.Findings) != 1 {
		t.Fatalf("got %d findings, want 1 (clean contact excluded)", len(decoded.Findings))
	}
	finding := decoded.Findings[0]
	if finding.ID != 1 || finding.SensitiveType != "PAYMENT_CARD" {
		t.Errorf("finding = %+v", finding)
	}
	if finding.ConfidenceLevel != "HIGH" {
		t.Errorf("confidence level = %q, want HIGH", finding.ConfidenceLevel)
	}
	if len(finding.Numbers) != 0 {
		t.Error("raw numbers included without --show-numbers")
	}
}

func TestFormatEmptyFindings(t *testing.T) {
	f := NewFormatter()
	out, err := f.Format(formatters.Report{
		Result: detector.ScanResult{TotalContacts: 1},
		Contacts: []detector.ClassifiedContact{
			{Contact: detector.Contact{ID: 1, Name: "Clean"}},
		},
	}, formatters.FormatterOptions{})
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if string(decoded["findings"]) != "[]" {
		t.Errorf("findings = %s, want []", decoded["findings"])
	}
}

func TestFormatterRegistered(t *testing.T) {
	if _, ok := formatters.Get("json"); !ok {
		t.Error("json formatter not registered")
	}
}
