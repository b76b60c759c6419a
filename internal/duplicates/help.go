// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package duplicates

import "contact-scan/internal/help"

// GetCheckInfo returns standardized information about the DUPLICATE check
func (d *Detector) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "DUPLICATE",
		ShortDescription: "Groups contacts that refer to the same person",
		DetailedDescription: `The DUPLICATE check groups contacts sharing a normalized phone number,
a lowercased email address, an identical name, or a closely similar name.

Passes run in priority order and a contact already claimed by an earlier
pass is never reassigned, so a number match always outranks a name match.
Similar-name grouping compares accent-folded names with a Levenshtein-based
similarity ratio inside a sorted window.`,

		Patterns: []string{
			"NUMBER_MATCH: identical numbers after normalization",
			"EMAIL_MATCH: identical email addresses, case-insensitive",
			"NAME_MATCH: identical names after lowercasing and trimming",
			"SIMILAR_NAME: similarity ratio above 0.82 between folded names",
		},

		Examples: []string{
			"contact-scan --file contacts.csv --verbose",
		},
	}
}
