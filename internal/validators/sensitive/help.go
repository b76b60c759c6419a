// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sensitive

import "contact-scan/internal/help"

// GetCheckInfo returns standardized information about the SENSITIVE check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "SENSITIVE",
		ShortDescription: "Detects national IDs, SSNs, passports and payment cards stored as contacts",
		DetailedDescription: `The SENSITIVE check finds values saved in the number field that are not
phone numbers at all but identity or financial data: US Social Security
numbers, UK National Insurance numbers, passport numbers, 18-digit resident
identity numbers, payment card numbers, and 11-digit NIN/BVN identifiers.

Any value that validates as a real phone number for the operating region (or,
when it carries a "+" prefix, for any region) is whitelisted before a single
pattern runs. Patterns are anchored and evaluated in a fixed order; the first
structural match governs. Inputs over 100 characters are rejected outright.`,

		Patterns: []string{
			"SSN: 3-2-4 grouped digits, reserved ranges excluded",
			"NATIONAL_INSURANCE: two letters, six digits, one letter",
			"PASSPORT: one letter followed by seven digits",
			"RESIDENT_ID: 17 digits plus a digit or X check character",
			"PAYMENT_CARD: issuer prefix families, 13-19 digits, Luhn checksum",
			"NIN_BVN: 11 consecutive digits that are not a valid phone number",
		},

		Examples: []string{
			"contact-scan --file contacts.csv --confidence high",
			"contact-scan --file contacts.csv --format json | jq '.findings[] | select(.is_sensitive)'",
		},
	}
}
