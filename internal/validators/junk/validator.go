// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package junk classifies contacts that are unlikely to be real, usable
// entries: missing data, malformed numbers, and garbled or symbol-only names.
package junk

import (
	"strings"
	"unicode"

	"contact-scan/internal/detector"
	"contact-scan/internal/observability"

	"github.com/rivo/uniseg"
)

// Validator maps a (name, number) pair to a junk category. Rules are
// evaluated in a fixed order and the first match wins; classification is
// pure and keeps no state between calls.
type Validator struct {
	observer *observability.StandardObserver
}

// NewValidator creates a junk classifier.
func NewValidator() *Validator {
	return &Validator{}
}

// SetObserver sets the observability component.
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

// Classify returns the junk category for a contact, or JunkNone.
func (v *Validator) Classify(name, number string) detector.JunkType {
	name = strings.TrimSpace(name)
	number = strings.TrimSpace(number)

	if name == "" {
		return detector.JunkNoName
	}
	if number == "" {
		return detector.JunkNoNumber
	}

	if jt := classifyNumber(number); jt != detector.JunkNone {
		return jt
	}
	return classifyName(name)
}

func classifyNumber(number string) detector.JunkType {
	digitCount := 0
	for _, r := range number {
		switch {
		case r >= '0' && r <= '9':
			digitCount++
		case unicode.IsSpace(r):
		case r == '+' || r == '-' || r == '(' || r == ')':
		default:
			return detector.JunkInvalidChar
		}
	}

	switch {
	case digitCount < 6:
		return detector.JunkShortNumber
	case digitCount > 15:
		return detector.JunkLongNumber
	}

	if hasRepetitiveRun(number, 6) {
		return detector.JunkRepetitiveDigits
	}
	return detector.JunkNone
}

// hasRepetitiveRun reports whether the digits of s contain a run of at least
// n identical consecutive digits.
func hasRepetitiveRun(s string, n int) bool {
	var last rune
	run := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if r == last {
			run++
		} else {
			last = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

func classifyName(name string) detector.JunkType {
	if isNumericalName(name) {
		return detector.JunkNumericalName
	}
	if hasFancyFontGlyphs(name) {
		return detector.JunkFancyFontName
	}
	if isEmojiOnlyName(name) {
		return detector.JunkEmojiName
	}
	if isSymbolOnlyName(name) {
		return detector.JunkSymbolName
	}
	return detector.JunkNone
}

// isNumericalName reports whether the name looks like a phone number stored
// in the name field: at least one digit, and nothing outside the characters
// a number may legitimately contain.
func isNumericalName(name string) bool {
	hasDigit := false
	for _, r := range name {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case unicode.IsSpace(r):
		case r == '+' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return hasDigit
}

// hasFancyFontGlyphs reports whether the name uses stylized Unicode letters
// (mathematical alphanumerics, enclosed or fullwidth forms) in place of
// plain text.
func hasFancyFontGlyphs(name string) bool {
	for _, r := range name {
		if isFancyRune(r) {
			return true
		}
	}
	return false
}

func isFancyRune(r rune) bool {
	switch {
	case r >= 0x1D400 && r <= 0x1D7FF: // Mathematical Alphanumeric Symbols
		return true
	case r >= 0x2460 && r <= 0x24FF: // Enclosed Alphanumerics
		return true
	case r >= 0x1F100 && r <= 0x1F1E5: // Enclosed Alphanumeric Supplement, before regional indicators
		return true
	case r >= 0xFF21 && r <= 0xFF3A: // Fullwidth A-Z
		return true
	case r >= 0xFF41 && r <= 0xFF5A: // Fullwidth a-z
		return true
	}
	return false
}

// isEmojiOnlyName reports whether every grapheme cluster in the name is a
// pictographic symbol. Whitespace between clusters is ignored; at least one
// emoji cluster is required.
func isEmojiOnlyName(name string) bool {
	emojiClusters := 0
	state := -1
	rest := name
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		if strings.TrimSpace(cluster) == "" {
			continue
		}
		if !isEmojiCluster(cluster) {
			return false
		}
		emojiClusters++
	}
	return emojiClusters > 0
}

func isEmojiCluster(cluster string) bool {
	for _, r := range cluster {
		return isEmojiRune(r)
	}
	return false
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, supplemental symbols
		return true
	case r >= 0x1F000 && r <= 0x1F0FF: // mahjong, dominoes, playing cards
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x27BF: // miscellaneous symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // stars and arrows commonly rendered as emoji
		return true
	}
	return false
}

// isSymbolOnlyName reports whether the name contains no letter and no digit
// at all, only punctuation or symbols.
func isSymbolOnlyName(name string) bool {
	seen := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		seen = true
	}
	return seen
}
