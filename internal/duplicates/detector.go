// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package duplicates builds duplicate groupings over a batch of contacts:
// three exact passes (normalized number, email, name) and one fuzzy pass
// over lexicographically sorted names with a bounded lookahead window.
package duplicates

import (
	"sort"
	"strings"
	"unicode"

	"contact-scan/internal/detector"
	"contact-scan/internal/phone"
	"contact-scan/internal/similarity"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fuzzyWindow bounds the forward scan of the sorted fuzzy pass. Similar names
// sit close together once sorted, so a fixed window keeps the pass
// near-linear instead of quadratic. Do not enlarge without re-deriving the
// complexity bound.
const fuzzyWindow = 50

// maxLengthDelta is the cheap pre-filter applied before the edit-distance
// call: names whose lengths differ by more can never clear the threshold.
const maxLengthDelta = 3

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Detector groups contacts by matching key for a fixed operating region.
type Detector struct {
	region  string
	matcher *similarity.Matcher
}

// NewDetector creates a duplicate detector for the given operating region.
func NewDetector(region string) *Detector {
	return &Detector{
		region:  region,
		matcher: similarity.NewMatcher(),
	}
}

// NameKey returns the canonical grouping form of a name: trimmed,
// lower-cased, accents folded away.
func NameKey(name string) string {
	folded, _, err := transform.String(foldAccents, strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(name))
	}
	return folded
}

// ByNumber groups contacts whose numbers normalize to the same canonical
// value. A contact with several numbers mapping to one key still counts once.
func (d *Detector) ByNumber(contacts []detector.Contact) []detector.DuplicateGroup {
	buckets := make(map[string]map[int64]detector.Contact)
	for _, c := range contacts {
		for _, raw := range c.Numbers {
			key := phone.Normalize(raw, d.region)
			if key == "" {
				continue
			}
			if buckets[key] == nil {
				buckets[key] = make(map[int64]detector.Contact)
			}
			buckets[key][c.ID] = c
		}
	}
	return groupsFrom(buckets, detector.DuplicateNumber)
}

// ByEmail groups contacts by trimmed, lower-cased email.
func (d *Detector) ByEmail(contacts []detector.Contact) []detector.DuplicateGroup {
	buckets := make(map[string]map[int64]detector.Contact)
	for _, c := range contacts {
		for _, raw := range c.Emails {
			key := strings.ToLower(strings.TrimSpace(raw))
			if key == "" {
				continue
			}
			if buckets[key] == nil {
				buckets[key] = make(map[int64]detector.Contact)
			}
			buckets[key][c.ID] = c
		}
	}
	return groupsFrom(buckets, detector.DuplicateEmail)
}

// ByName groups contacts by trimmed, lower-cased name.
func (d *Detector) ByName(contacts []detector.Contact) []detector.DuplicateGroup {
	buckets := make(map[string]map[int64]detector.Contact)
	for _, c := range contacts {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" {
			continue
		}
		if buckets[key] == nil {
			buckets[key] = make(map[int64]detector.Contact)
		}
		buckets[key][c.ID] = c
	}
	return groupsFrom(buckets, detector.DuplicateName)
}

// BySimilarName runs the fuzzy pass: contacts with non-empty names are sorted
// by folded name, then each unconsumed contact seeds a group and scans at most
// fuzzyWindow entries ahead. The scan stops early once the first character
// diverges, since sorted names separate faster than the similarity tolerance
// allows. Names over similarity.MaxComparableLength never match and never
// seed a group.
func (d *Detector) BySimilarName(contacts []detector.Contact) []detector.DuplicateGroup {
	type entry struct {
		contact detector.Contact
		folded  string
		length  int
	}

	entries := make([]entry, 0, len(contacts))
	for _, c := range contacts {
		folded := NameKey(c.Name)
		if folded == "" {
			continue
		}
		length := len([]rune(folded))
		if length > similarity.MaxComparableLength {
			continue
		}
		entries = append(entries, entry{contact: c, folded: folded, length: length})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].folded < entries[j].folded })

	var groups []detector.DuplicateGroup
	consumed := make([]bool, len(entries))

	for i := range entries {
		if consumed[i] {
			continue
		}
		seed := entries[i]
		var members []detector.Contact

		limit := i + fuzzyWindow
		if limit >= len(entries) {
			limit = len(entries) - 1
		}
		for j := i + 1; j <= limit; j++ {
			if consumed[j] {
				continue
			}
			next := entries[j]
			if firstRune(next.folded) != firstRune(seed.folded) {
				break
			}
			delta := next.length - seed.length
			if delta < 0 {
				delta = -delta
			}
			if delta > maxLengthDelta {
				continue
			}
			if next.folded == seed.folded {
				// Exact matches belong to the exact name pass.
				continue
			}
			if d.matcher.Similarity(seed.folded, next.folded) > similarity.Threshold {
				members = append(members, next.contact)
				consumed[j] = true
			}
		}

		if len(members) > 0 {
			members = append(members, seed.contact)
			consumed[i] = true
			sortByName(members)
			groups = append(groups, detector.DuplicateGroup{
				MatchingKey:   seed.folded,
				DuplicateType: detector.DuplicateSimilarName,
				Contacts:      members,
			})
		}
	}
	return groups
}

// DetectAll runs every pass and returns the combined set of groups.
func (d *Detector) DetectAll(contacts []detector.Contact) []detector.DuplicateGroup {
	groups := d.ByNumber(contacts)
	groups = append(groups, d.ByEmail(contacts)...)
	groups = append(groups, d.ByName(contacts)...)
	groups = append(groups, d.BySimilarName(contacts)...)
	return groups
}

func groupsFrom(buckets map[string]map[int64]detector.Contact, dt detector.DuplicateType) []detector.DuplicateGroup {
	var groups []detector.DuplicateGroup
	for key, members := range buckets {
		if len(members) < 2 {
			continue
		}
		list := make([]detector.Contact, 0, len(members))
		for _, c := range members {
			list = append(list, c)
		}
		sortByName(list)
		groups = append(groups, detector.DuplicateGroup{
			MatchingKey:   key,
			DuplicateType: dt,
			Contacts:      list,
		})
	}
	return groups
}

func sortByName(contacts []detector.Contact) {
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].Name != contacts[j].Name {
			return contacts[i].Name < contacts[j].Name
		}
		return contacts[i].ID < contacts[j].ID
	})
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
