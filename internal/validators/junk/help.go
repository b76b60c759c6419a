// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package junk

import "contact-scan/internal/help"

// GetCheckInfo returns standardized information about the JUNK check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "JUNK",
		ShortDescription: "Detects contacts that are unlikely to be real, usable entries",
		DetailedDescription: `The JUNK check classifies contacts whose name or number makes them
unlikely to ever be dialed or recognized: entries missing a name or number,
numbers with invalid characters or implausible lengths, and names made
entirely of digits, stylized Unicode glyphs, emoji, or bare symbols.

Rules are evaluated in a fixed order and the first match wins. A contact
flagged as sensitive is never also flagged junk; a PII-like value must not be
deleted without review.`,

		Patterns: []string{
			"NO_NAME / NO_NUMBER: missing fields",
			"INVALID_CHAR: number contains characters outside digits, whitespace, + - ( )",
			"SHORT_NUMBER / LONG_NUMBER: fewer than 6 or more than 15 digits",
			"REPETITIVE_DIGITS: a run of 6 or more identical consecutive digits",
			"NUMERICAL_NAME: name is a phone number",
			"FANCY_FONT_NAME / EMOJI_NAME / SYMBOL_NAME: name has no plain text",
		},

		Examples: []string{
			"contact-scan --file contacts.csv",
			"contact-scan --file contacts.csv --format json",
		},
	}
}
