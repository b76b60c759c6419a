// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package format detects phone numbers that are structurally valid but are
// missing their international prefix, and proposes the corrected form.
package format

import (
	"strings"

	"contact-scan/internal/observability"
	"contact-scan/internal/phone"
)

// Issue describes a correctable number format problem.
type Issue struct {
	// NormalizedNumber is the proposed corrected form, always "+<digits>".
	NormalizedNumber string
	CallingCode      string
	Region           string
	RegionName       string
}

// Validator analyzes raw numbers for missing international prefixes.
type Validator struct {
	observer *observability.StandardObserver
}

// NewValidator creates a format issue detector.
func NewValidator() *Validator {
	return &Validator{}
}

// SetObserver sets the observability component.
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

// Analyze returns the format issue for raw, or nil when the number is blank,
// already internationally prefixed, or cannot be corrected unambiguously.
func (v *Validator) Analyze(raw, region string) *Issue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "+") || strings.HasPrefix(trimmed, "00") {
		// Already carries an international marker.
		return nil
	}

	digits := digitsOnly(trimmed)
	if digits == "" {
		return nil
	}

	// Fast path: a 13-digit string starting with 234 is unambiguously a
	// Nigerian number that lost its plus sign. Accepted on length alone.
	if len(digits) == 13 && strings.HasPrefix(digits, "234") {
		return &Issue{
			NormalizedNumber: "+" + digits,
			CallingCode:      "234",
			Region:           "NG",
			RegionName:       phone.RegionName("NG"),
		}
	}

	// General path: prepend "+" and accept only if validation succeeds AND
	// canonicalization reproduces exactly the proposed form. A library
	// "correcting" the number to something else would silently change it.
	candidate := "+" + digits
	detected, ok := phone.MatchRegion(digits)
	if !ok {
		return nil
	}
	// Validation runs against the operating region so its collision rules
	// apply; the detected region is only used for reporting.
	if !phone.IsValid(candidate, region) {
		return nil
	}
	if phone.Normalize(candidate, detected) != candidate {
		return nil
	}

	return &Issue{
		NormalizedNumber: candidate,
		CallingCode:      phone.CallingCode(detected),
		Region:           detected,
		RegionName:       phone.RegionName(detected),
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
