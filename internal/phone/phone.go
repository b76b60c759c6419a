// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package phone canonicalizes raw phone number strings to an E.164-like form
// and decides structural validity against a flat per-region rule table.
// It is the leaf dependency for every other classifier: the sensitive data
// detector uses it to whitelist real numbers before pattern matching, and the
// format detector uses it to verify proposed corrections.
package phone

import (
	"strings"
)

// regionRule describes one region's numbering plan. New regions are added by
// inserting a row, never by subclassing.
type regionRule struct {
	callingCode string
	// nationalLengths are the accepted digit counts after the calling code.
	nationalLengths map[int]bool
	// localLength is the digit count of the in-country dialing form,
	// including the trunk prefix where one exists.
	localLength int
	trunkPrefix string
	// mobilePrefixes, when non-empty, restricts the leading two digits of
	// the national number.
	mobilePrefixes []string
}

var regionRules = map[string]regionRule{
	"NG": {
		callingCode:     "234",
		nationalLengths: map[int]bool{10: true},
		localLength:     11,
		trunkPrefix:     "0",
		mobilePrefixes:  []string{"70", "80", "81", "90", "91"},
	},
	"US": {callingCode: "1", nationalLengths: map[int]bool{10: true}, localLength: 10},
	"GB": {callingCode: "44", nationalLengths: map[int]bool{10: true}, localLength: 11, trunkPrefix: "0"},
	"GH": {callingCode: "233", nationalLengths: map[int]bool{9: true}, localLength: 10, trunkPrefix: "0"},
	"KE": {callingCode: "254", nationalLengths: map[int]bool{9: true}, localLength: 10, trunkPrefix: "0"},
	"ZA": {callingCode: "27", nationalLengths: map[int]bool{9: true}, localLength: 10, trunkPrefix: "0"},
	"IN": {callingCode: "91", nationalLengths: map[int]bool{10: true}, localLength: 10},
	"CN": {callingCode: "86", nationalLengths: map[int]bool{11: true}, localLength: 11},
}

var regionNames = map[string]string{
	"NG": "Nigeria",
	"US": "United States",
	"GB": "United Kingdom",
	"GH": "Ghana",
	"KE": "Kenya",
	"ZA": "South Africa",
	"IN": "India",
	"CN": "China",
}

// Strip reduces raw to digits plus a leading "+" if one was present.
func Strip(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize returns a best-effort canonical form of raw for the given region.
// It never fails: when the number cannot be interpreted against the region's
// rules it falls back to the stripped digits form.
func Normalize(raw, region string) string {
	s := Strip(raw)
	if s == "" {
		return s
	}
	if strings.HasPrefix(s, "+") {
		return s
	}
	if strings.HasPrefix(s, "00") && len(s) > 2 {
		return "+" + s[2:]
	}
	rule, ok := regionRules[region]
	if !ok {
		return s
	}
	if rule.trunkPrefix != "" && strings.HasPrefix(s, rule.trunkPrefix) && len(s) == rule.localLength {
		return "+" + rule.callingCode + s[len(rule.trunkPrefix):]
	}
	if rule.nationalLengths[len(s)] {
		return "+" + rule.callingCode + s
	}
	return s
}

// IsValid reports whether number is structurally valid for region.
//
// For numbers carrying an international marker the calling code alone is not
// enough: the national number length must also match the owning region's
// table. When the digits happen to satisfy a foreign calling code AND have
// the same total digit count as region's local form, the ambiguity is
// resolved in favor of region. This deliberately misclassifies some foreign
// numbers when the operating region is one with a colliding length (NG vs
// the +1 plan) so that identity numbers are not whitelisted as phones.
func IsValid(number, region string) bool {
	s := Strip(number)
	if s == "" {
		return false
	}
	rule, haveRule := regionRules[region]

	if !strings.HasPrefix(s, "+") {
		if !haveRule {
			return false
		}
		return validLocal(s, rule)
	}

	digits := s[1:]
	if digits == "" {
		return false
	}

	if haveRule && strings.HasPrefix(digits, rule.callingCode) {
		return validNational(digits[len(rule.callingCode):], rule)
	}

	// Collision guard: same digit count as the operating region's local
	// form is resolved as a (failed) local number, not a foreign one.
	if haveRule && len(digits) == rule.localLength {
		return validLocal(digits, rule)
	}

	foreign, ok := MatchRegion(digits)
	if !ok {
		return false
	}
	fr := regionRules[foreign]
	return validNational(digits[len(fr.callingCode):], fr)
}

// IsValidAny reports whether number, which must carry a "+" marker, is valid
// for any region in the table.
func IsValidAny(number string) bool {
	s := Strip(number)
	if !strings.HasPrefix(s, "+") {
		return false
	}
	digits := s[1:]
	region, ok := MatchRegion(digits)
	if !ok {
		return false
	}
	rule := regionRules[region]
	return validNational(digits[len(rule.callingCode):], rule)
}

// MatchRegion finds the region whose calling code prefixes digits, preferring
// the longest code when several match.
func MatchRegion(digits string) (string, bool) {
	best := ""
	bestLen := 0
	for region, rule := range regionRules {
		if strings.HasPrefix(digits, rule.callingCode) && len(rule.callingCode) > bestLen {
			best = region
			bestLen = len(rule.callingCode)
		}
	}
	return best, best != ""
}

// CallingCode returns the calling code for region, or "".
func CallingCode(region string) string {
	return regionRules[region].callingCode
}

// RegionName returns a display name for region, falling back to the code.
func RegionName(region string) string {
	if name, ok := regionNames[region]; ok {
		return name
	}
	return region
}

// KnownRegion reports whether region has a rule table entry.
func KnownRegion(region string) bool {
	_, ok := regionRules[region]
	return ok
}

func validLocal(digits string, rule regionRule) bool {
	if strings.HasPrefix(digits, "+") {
		return false
	}
	if len(digits) != rule.localLength {
		return false
	}
	if rule.trunkPrefix != "" {
		if !strings.HasPrefix(digits, rule.trunkPrefix) {
			return false
		}
		return validNational(digits[len(rule.trunkPrefix):], rule)
	}
	return validNational(digits, rule)
}

func validNational(national string, rule regionRule) bool {
	if !rule.nationalLengths[len(national)] {
		return false
	}
	if len(rule.mobilePrefixes) > 0 {
		if len(national) < 2 {
			return false
		}
		lead := national[:2]
		for _, p := range rule.mobilePrefixes {
			if lead == p {
				return true
			}
		}
		return false
	}
	return true
}
