// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sensitive

import (
	"strings"
	"testing"
)

func TestAnalyzeWhitelistsPhoneNumbers(t *testing.T) {
	v := NewValidator()
	cases := []struct {
		name   string
		input  string
		region string
	}{
		{"ng local mobile", "08012345678", "NG"},
		{"ng international", "+2348012345678", "NG"},
		{"foreign international", "+447911123456", "NG"},
		{"us local under us", "2125551234", "US"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if m := v.Analyze(tc.input, tc.region); m != nil {
				t.Errorf("Analyze(%q, %q) = %+v, want nil (phone whitelist)", tc.input, tc.region, m)
			}
		})
	}
}

// A "+"-prefixed value that fails phone validation is a malformed number, not
// PII. No pattern should fire on it.
func TestAnalyzePlusPrefixedNeverMatches(t *testing.T) {
	v := NewValidator()
	for _, input := range []string{"+99912345678", "+1234", "+12345678901234567"} {
		if m := v.Analyze(input, "NG"); m != nil {
			t.Errorf("Analyze(%q) = %+v, want nil", input, m)
		}
	}
}

func TestAnalyzeSSN(t *testing.T) {
	v := NewValidator()
	cases := []struct {
		name      string
		input     string
		wantMatch bool
	}{
		{"dashed ssn", "123-45-6789", true},
		{"spaced ssn", "123 45 6789", true},
		{"plain nine digits rejected", "123456789", false},
		{"area 000", "000-45-6789", false},
		{"area 666", "666-45-6789", false},
		{"area 9xx", "912-45-6789", false},
		{"group 00", "123-00-6789", false},
		{"serial 0000", "123-45-0000", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := v.Analyze(tc.input, "NG")
			if tc.wantMatch {
				if m == nil || m.Type != "SSN" {
					t.Fatalf("Analyze(%q) = %+v, want SSN match", tc.input, m)
				}
				if m.Confidence != 90 {
					t.Errorf("SSN confidence = %v, want 90", m.Confidence)
				}
			} else if m != nil && m.Type == "SSN" {
				t.Errorf("Analyze(%q) = %+v, want no SSN match", tc.input, m)
			}
		})
	}
}

func TestAnalyzeNINO(t *testing.T) {
	v := NewValidator()

	m := v.Analyze("AB123456C", "NG")
	if m == nil || m.Type != "NATIONAL_INSURANCE" {
		t.Fatalf("Analyze(AB123456C) = %+v, want NATIONAL_INSURANCE", m)
	}
	if m.Confidence != 85 {
		t.Errorf("NINO confidence = %v, want 85", m.Confidence)
	}

	if m := v.Analyze("QQ123456C", "NG"); m != nil && m.Type == "NATIONAL_INSURANCE" {
		t.Errorf("invalid prefix letter Q should not match, got %+v", m)
	}
	if m := v.Analyze("AB123456E", "NG"); m != nil && m.Type == "NATIONAL_INSURANCE" {
		t.Errorf("suffix outside A-D should not match, got %+v", m)
	}
}

func TestAnalyzePassport(t *testing.T) {
	v := NewValidator()
	m := v.Analyze("A1234567", "NG")
	if m == nil || m.Type != "PASSPORT" {
		t.Fatalf("Analyze(A1234567) = %+v, want PASSPORT", m)
	}
	if m.Confidence != 75 {
		t.Errorf("passport confidence = %v, want 75", m.Confidence)
	}
}

func TestAnalyzeResidentID(t *testing.T) {
	v := NewValidator()
	for _, input := range []string{"110101199003074518", "11010119900307451X"} {
		m := v.Analyze(input, "NG")
		if m == nil || m.Type != "RESIDENT_ID" {
			t.Errorf("Analyze(%q) = %+v, want RESIDENT_ID", input, m)
		}
	}
}

func TestAnalyzePaymentCard(t *testing.T) {
	v := NewValidator()
	cases := []struct {
		name      string
		input     string
		wantMatch bool
	}{
		{"visa test number", "4111111111111111", true},
		{"visa with dashes", "4111-1111-1111-1111", true},
		{"visa with spaces", "4111 1111 1111 1111", true},
		{"amex test number", "378282246310005", true},
		{"mastercard test number", "5555555555554444", true},
		{"luhn failure", "4111111111111112", false},
		{"unknown issuer prefix", "9111111111111111", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := v.Analyze(tc.input, "NG")
			if tc.wantMatch {
				if m == nil || m.Type != "PAYMENT_CARD" {
					t.Fatalf("Analyze(%q) = %+v, want PAYMENT_CARD", tc.input, m)
				}
				if m.Confidence != 95 {
					t.Errorf("card confidence = %v, want 95", m.Confidence)
				}
			} else if m != nil && m.Type == "PAYMENT_CARD" {
				t.Errorf("Analyze(%q) = %+v, want no card match", tc.input, m)
			}
		})
	}
}

// An 11-digit value in the operating region is a NIN/BVN candidate only when
// it fails phone validation. 99912345678 has no valid mobile prefix; a real
// 0-prefixed mobile number never reaches the pattern.
func TestAnalyzeNINFallback(t *testing.T) {
	v := NewValidator()

	m := v.Analyze("99912345678", "NG")
	if m == nil || m.Type != "NIN_BVN" {
		t.Fatalf("Analyze(99912345678) = %+v, want NIN_BVN", m)
	}
	if m.Confidence != 70 {
		t.Errorf("NIN confidence = %v, want 70", m.Confidence)
	}

	if m := v.Analyze("08012345678", "NG"); m != nil {
		t.Errorf("valid NG mobile misreported as %+v", m)
	}
}

func TestAnalyzeGuards(t *testing.T) {
	v := NewValidator()
	if m := v.Analyze("", "NG"); m != nil {
		t.Errorf("empty input matched: %+v", m)
	}
	if m := v.Analyze(strings.Repeat("1", 101), "NG"); m != nil {
		t.Errorf("oversized input matched: %+v", m)
	}
	if m := v.Analyze("hello world", "NG"); m != nil {
		t.Errorf("plain text matched: %+v", m)
	}
}
