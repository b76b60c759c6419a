// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import "testing"

func TestStrip(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain digits", "08012345678", "08012345678"},
		{"leading plus kept", "+2348012345678", "+2348012345678"},
		{"formatting removed", "(080) 1234-5678", "08012345678"},
		{"spaces removed", " 080 1234 5678 ", "08012345678"},
		{"interior plus dropped", "080+12345678", "08012345678"},
		{"letters dropped", "call 080", "080"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Strip(tc.input); got != tc.want {
				t.Errorf("Strip(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{"already international", "+2348012345678", "NG", "+2348012345678"},
		{"00 prefix rewritten", "002348012345678", "NG", "+2348012345678"},
		{"local trunk form", "08012345678", "NG", "+2348012345678"},
		{"bare national form", "8012345678", "NG", "+2348012345678"},
		{"formatted local form", "0801 234 5678", "NG", "+2348012345678"},
		{"us ten digit", "2125551234", "US", "+12125551234"},
		{"uk trunk form", "07911123456", "GB", "+447911123456"},
		{"unknown region falls back", "08012345678", "XX", "08012345678"},
		{"uninterpretable falls back", "12345", "NG", "12345"},
		{"empty", "", "NG", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input, tc.region); got != tc.want {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tc.input, tc.region, got, tc.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"08012345678", "+2348012345678", "002348012345678", "12345"}
	for _, input := range inputs {
		once := Normalize(input, "NG")
		twice := Normalize(once, "NG")
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		region string
		want   bool
	}{
		{"ng local mobile", "08012345678", "NG", true},
		{"ng local 70 prefix", "07012345678", "NG", true},
		{"ng local 91 prefix", "09112345678", "NG", true},
		{"ng international", "+2348012345678", "NG", true},
		{"ng bad mobile prefix", "02012345678", "NG", false},
		{"ng wrong length", "0801234567", "NG", false},
		{"ng missing trunk prefix", "80123456789", "NG", false},
		{"us local", "2125551234", "US", true},
		{"us international", "+12125551234", "US", true},
		{"foreign number in ng region", "+447911123456", "NG", true},
		{"eleven digit nin rejected", "99912345678", "NG", false},
		{"empty", "", "NG", false},
		{"bare plus", "+", "NG", false},
		{"unknown region local", "08012345678", "XX", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValid(tc.input, tc.region); got != tc.want {
				t.Errorf("IsValid(%q, %q) = %v, want %v", tc.input, tc.region, got, tc.want)
			}
		})
	}
}

// A "+" number whose digit count equals the operating region's local length is
// judged as a local number, even when it carries a foreign calling code. An
// 11-digit +1 number in the NG region must therefore fail rather than pass as
// a US number.
func TestIsValidCollisionGuard(t *testing.T) {
	if IsValid("+12345678901", "NG") {
		t.Error("11-digit +1 number should not validate in the NG region")
	}
	if !IsValid("+12125551234", "US") {
		t.Error("+12125551234 should validate in the US region")
	}
}

func TestIsValidAny(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"ng international", "+2348012345678", true},
		{"us international", "+12125551234", true},
		{"no plus marker", "2348012345678", false},
		{"unknown calling code", "+99912345678", false},
		{"wrong national length", "+234801234", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidAny(tc.input); got != tc.want {
				t.Errorf("IsValidAny(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestMatchRegion(t *testing.T) {
	cases := []struct {
		name       string
		digits     string
		wantRegion string
		wantOK     bool
	}{
		{"nigeria", "2348012345678", "NG", true},
		{"us", "12125551234", "US", true},
		{"uk", "447911123456", "GB", true},
		{"no match", "9991234", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			region, ok := MatchRegion(tc.digits)
			if region != tc.wantRegion || ok != tc.wantOK {
				t.Errorf("MatchRegion(%q) = (%q, %v), want (%q, %v)",
					tc.digits, region, ok, tc.wantRegion, tc.wantOK)
			}
		})
	}
}

func TestRegionHelpers(t *testing.T) {
	if CallingCode("NG") != "234" {
		t.Errorf("CallingCode(NG) = %q, want 234", CallingCode("NG"))
	}
	if RegionName("NG") != "Nigeria" {
		t.Errorf("RegionName(NG) = %q, want Nigeria", RegionName("NG"))
	}
	if RegionName("XX") != "XX" {
		t.Errorf("RegionName(XX) = %q, want fallback to code", RegionName("XX"))
	}
	if !KnownRegion("US") || KnownRegion("XX") {
		t.Error("KnownRegion should accept US and reject XX")
	}
}
