// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package sensitive detects values that look like national IDs, SSNs,
// passports or payment card numbers rather than contact data. Real phone
// numbers are whitelisted before any pattern runs so that a valid number is
// never reported as PII.
package sensitive

import (
	"fmt"
	"regexp"
	"strings"

	"contact-scan/internal/observability"
	"contact-scan/internal/phone"
)

// maxAnalyzeLength caps the input size; anything longer is rejected before
// any regex runs.
const maxAnalyzeLength = 100

// Match describes a detected sensitive value.
type Match struct {
	Type        string
	Confidence  float64
	Description string
}

// Validator detects PII-like values using anchored structural patterns.
// Patterns are evaluated in a fixed order and the first match governs.
type Validator struct {
	ssnRegex        *regexp.Regexp
	ninoRegex       *regexp.Regexp
	passportRegex   *regexp.Regexp
	residentIDRegex *regexp.Regexp
	cardRegex       *regexp.Regexp
	ninRegex        *regexp.Regexp

	// SSN area numbers that are never issued.
	invalidSSNAreas map[string]bool

	// NINO prefix letters that are never issued.
	invalidNINOLetters string

	observer *observability.StandardObserver
}

// NewValidator creates and returns a new Validator instance with compiled
// patterns for the supported ID families.
func NewValidator() *Validator {
	return &Validator{
		// US SSN: 3-2-4 grouping, dashed, spaced or plain.
		ssnRegex: regexp.MustCompile(`^\d{3}[-\s]\d{2}[-\s]\d{4}$|^\d{9}$`),
		// UK National Insurance number: two letters, six digits, one letter.
		ninoRegex: regexp.MustCompile(`^[A-Za-z]{2}\s?\d{6}\s?[A-Da-d]$`),
		// Passport: one letter followed by seven digits.
		passportRegex: regexp.MustCompile(`^[A-Za-z]\d{7}$`),
		// CN resident identity card: 17 digits plus a digit or X check char.
		residentIDRegex: regexp.MustCompile(`^\d{17}[\dXx]$`),
		// Payment card: 13-19 digits with optional space/dash separators.
		cardRegex: regexp.MustCompile(`^(?:\d[ -]?){12,18}\d$`),
		// NG NIN/BVN: exactly 11 digits.
		ninRegex: regexp.MustCompile(`^\d{11}$`),

		invalidSSNAreas: map[string]bool{
			"000": true, "666": true,
		},
		invalidNINOLetters: "DFIQUV",
	}
}

// SetObserver sets the observability component.
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

// Analyze inspects value and returns the first structural PII match, or nil.
// A value that validates as a phone number for region (or, when it carries a
// "+" marker, for any region) is whitelisted. A "+"-prefixed value that fails
// validation is a malformed phone number, not PII, and also returns nil.
func (v *Validator) Analyze(value, region string) *Match {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || len(trimmed) > maxAnalyzeLength {
		return nil
	}

	// Phone whitelist runs before every pattern.
	if phone.IsValid(trimmed, region) {
		return nil
	}
	if strings.HasPrefix(trimmed, "+") {
		// Either a valid foreign number or digit noise that no ID pattern
		// would legitimately carry a plus sign for.
		return nil
	}

	if m := v.matchSSN(trimmed); m != nil {
		return m
	}
	if v.ninoRegex.MatchString(trimmed) && v.validNINOPrefix(trimmed) {
		return &Match{
			Type:        "NATIONAL_INSURANCE",
			Confidence:  85,
			Description: "Looks like a UK National Insurance number",
		}
	}
	if v.passportRegex.MatchString(trimmed) {
		return &Match{
			Type:        "PASSPORT",
			Confidence:  75,
			Description: "Looks like a passport number",
		}
	}
	if v.residentIDRegex.MatchString(trimmed) {
		return &Match{
			Type:        "RESIDENT_ID",
			Confidence:  85,
			Description: "Looks like an 18-digit resident identity number",
		}
	}
	if m := v.matchPaymentCard(trimmed); m != nil {
		return m
	}

	// Fallback for the operating region's national ID: 11 consecutive
	// digits that did not validate as a phone number above.
	if v.ninRegex.MatchString(trimmed) {
		return &Match{
			Type:        "NIN_BVN",
			Confidence:  70,
			Description: "Looks like an 11-digit national identity or bank verification number",
		}
	}

	return nil
}

// matchSSN applies the SSN pattern and excludes reserved invalid ranges.
func (v *Validator) matchSSN(value string) *Match {
	if !v.ssnRegex.MatchString(value) {
		return nil
	}
	digits := digitsOnly(value)
	if len(digits) != 9 {
		return nil
	}
	area, group, serial := digits[:3], digits[3:5], digits[5:]
	if v.invalidSSNAreas[area] || area[0] == '9' {
		return nil
	}
	if group == "00" || serial == "0000" {
		return nil
	}
	// Plain 9-digit strings carry no grouping evidence; only report the
	// grouped forms as SSNs to keep precision high.
	if !strings.ContainsAny(value, "- ") {
		return nil
	}
	return &Match{
		Type:        "SSN",
		Confidence:  90,
		Description: "Looks like a US Social Security number",
	}
}

func (v *Validator) validNINOPrefix(value string) bool {
	prefix := strings.ToUpper(value[:2])
	for _, r := range prefix {
		if strings.ContainsRune(v.invalidNINOLetters, r) {
			return false
		}
	}
	return true
}

// matchPaymentCard checks issuer digit-prefix families and the Luhn checksum.
func (v *Validator) matchPaymentCard(value string) *Match {
	if !v.cardRegex.MatchString(value) {
		return nil
	}
	digits := digitsOnly(value)
	if len(digits) < 13 || len(digits) > 19 {
		return nil
	}
	vendor := cardVendor(digits)
	if vendor == "" {
		return nil
	}
	if !luhnValid(digits) {
		return nil
	}
	return &Match{
		Type:        "PAYMENT_CARD",
		Confidence:  95,
		Description: fmt.Sprintf("Looks like a %s payment card number", vendor),
	}
}

// cardVendor maps the leading digits to a major issuer family, or "".
func cardVendor(digits string) string {
	switch {
	case strings.HasPrefix(digits, "4"):
		return "Visa"
	case inPrefixRange(digits, 51, 55) || inPrefixRange(digits, 2221, 2720):
		return "MasterCard"
	case strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37"):
		return "American Express"
	case strings.HasPrefix(digits, "6011") || strings.HasPrefix(digits, "65") ||
		inPrefixRange(digits, 644, 649):
		return "Discover"
	case strings.HasPrefix(digits, "35"):
		return "JCB"
	case strings.HasPrefix(digits, "30") || strings.HasPrefix(digits, "36") ||
		strings.HasPrefix(digits, "38"):
		return "Diners Club"
	}
	return ""
}

// inPrefixRange reports whether the leading digits of s, read as a number of
// the same width as lo and hi, fall within [lo, hi].
func inPrefixRange(s string, lo, hi int) bool {
	width := len(fmt.Sprintf("%d", lo))
	if len(s) < width {
		return false
	}
	n := 0
	for _, r := range s[:width] {
		n = n*10 + int(r-'0')
	}
	return n >= lo && n <= hi
}

// luhnValid implements the Luhn checksum used by payment card numbers.
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
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
