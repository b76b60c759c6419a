// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"contact-scan/internal/detector"
	"contact-scan/internal/formatters"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

type jsonContact struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name,omitempty"`
	Numbers     []string `json:"numbers,omitempty"`
	Emails      []string `json:"emails,omitempty"`
	AccountType string   `json:"account_type,omitempty"`
	AccountName string   `json:"account_name,omitempty"`

	JunkType             string  `json:"junk_type,omitempty"`
	IsFormatIssue        bool    `json:"is_format_issue,omitempty"`
	CorrectedNumber      string  `json:"corrected_number,omitempty"`
	IsSensitive          bool    `json:"is_sensitive,omitempty"`
	SensitiveType        string  `json:"sensitive_type,omitempty"`
	SensitiveDescription string  `json:"sensitive_description,omitempty"`
	SensitiveConfidence  float64 `json:"sensitive_confidence,omitempty"`
	ConfidenceLevel      string  `json:"confidence_level,omitempty"`
	DuplicateType        string  `json:"duplicate_type,omitempty"`
	MatchingKey          string  `json:"matching_key,omitempty"`
}

type jsonReport struct {
	Summary  detector.ScanResult `json:"summary"`
	Findings []jsonContact       `json:"findings"`
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	out := jsonReport{
		Summary:  report.Result,
		Findings: []jsonContact{},
	}

	for _, c := range report.Contacts {
		if c.JunkType == detector.JunkNone && !c.IsFormatIssue && !c.IsSensitive &&
			c.DuplicateType == detector.DuplicateNone {
			continue
		}
		if c.IsSensitive && !formatters.ShowConfidence(c.SensitiveConfidence, options) {
			continue
		}
		jc := jsonContact{
			ID:                   c.ID,
			Name:                 c.Name,
			Emails:               c.Emails,
			AccountType:          c.AccountType,
			AccountName:          c.AccountName,
			JunkType:             string(c.JunkType),
			IsFormatIssue:        c.IsFormatIssue,
			CorrectedNumber:      c.CorrectedNumber,
			IsSensitive:          c.IsSensitive,
			SensitiveType:        c.SensitiveType,
			SensitiveDescription: c.SensitiveDescription,
			DuplicateType:        string(c.DuplicateType),
			MatchingKey:          c.MatchingKey,
		}
		if c.IsSensitive {
			jc.SensitiveConfidence = c.SensitiveConfidence
			jc.ConfidenceLevel = formatters.ConfidenceLevel(c.SensitiveConfidence)
		}
		if options.ShowNumbers || options.Verbose {
			jc.Numbers = c.Numbers
		}
		out.Findings = append(out.Findings, jc)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(encoded), nil
}

func init() {
	formatters.Register(NewFormatter())
}
