// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package format

import "contact-scan/internal/help"

// GetCheckInfo returns standardized information about the FORMAT check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "FORMAT",
		ShortDescription: "Detects valid numbers missing their international prefix",
		DetailedDescription: `The FORMAT check finds numbers that are structurally valid but stored
without an international prefix, and proposes the corrected "+<digits>" form.

A correction is only proposed when re-formatting the corrected number back to
canonical form reproduces it exactly; a correction that would silently change
the number is rejected. Numbers already carrying a "+" or "00" prefix are
skipped.`,

		Patterns: []string{
			"13-digit strings starting with 234 (unambiguous Nigerian numbers)",
			"digit strings that validate once a + prefix is added",
		},

		Examples: []string{
			"contact-scan --file contacts.csv --standardize",
		},
	}
}
