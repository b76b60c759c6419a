// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package similarity implements bounded edit-distance comparison for fuzzy
// name matching.
package similarity

// Threshold is the similarity score above which two names are considered
// similar. Exact matches are excluded by callers, not here.
const Threshold = 0.82

// MaxComparableLength caps the input size for fuzzy comparison. Names longer
// than this never match and never seed a group, which bounds the cost of a
// pathological input.
const MaxComparableLength = 1000

// defaultBufferLen covers the longest realistic contact name without
// reallocating per call.
const defaultBufferLen = 256

// Matcher computes Levenshtein distance using two reusable integer buffers.
// A Matcher is not safe for concurrent use.
type Matcher struct {
	prev []int
	curr []int
}

// NewMatcher returns a Matcher with preallocated working buffers.
func NewMatcher() *Matcher {
	return &Matcher{
		prev: make([]int, defaultBufferLen),
		curr: make([]int, defaultBufferLen),
	}
}

// Distance returns the edit distance between a and b with unit-cost insert,
// delete and substitute operations.
func (m *Matcher) Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	width := len(rb) + 1
	prev, curr := m.prev, m.curr
	if width > len(prev) {
		// Oversized input: fall back to fresh allocation rather than
		// growing the shared buffers.
		prev = make([]int, width)
		curr = make([]int, width)
	}

	for j := 0; j < width; j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity returns 1 - distance/max(len(a), len(b)). Two empty strings
// score 0: the empty match is never "similar".
func (m *Matcher) Similarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	d := m.Distance(a, b)
	return 1 - float64(d)/float64(longest)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
