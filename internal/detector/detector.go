// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "context"

// JunkType classifies why a contact is considered junk.
type JunkType string

const (
	JunkNone             JunkType = ""
	JunkNoName           JunkType = "NO_NAME"
	JunkNoNumber         JunkType = "NO_NUMBER"
	JunkInvalidChar      JunkType = "INVALID_CHAR"
	JunkShortNumber      JunkType = "SHORT_NUMBER"
	JunkLongNumber       JunkType = "LONG_NUMBER"
	JunkRepetitiveDigits JunkType = "REPETITIVE_DIGITS"
	JunkNumericalName    JunkType = "NUMERICAL_NAME"
	JunkFancyFontName    JunkType = "FANCY_FONT_NAME"
	JunkEmojiName        JunkType = "EMOJI_NAME"
	JunkSymbolName       JunkType = "SYMBOL_NAME"
)

// DuplicateType classifies how a contact was matched into a duplicate group.
type DuplicateType string

const (
	DuplicateNone        DuplicateType = ""
	DuplicateNumber      DuplicateType = "NUMBER_MATCH"
	DuplicateEmail       DuplicateType = "EMAIL_MATCH"
	DuplicateName        DuplicateType = "NAME_MATCH"
	DuplicateSimilarName DuplicateType = "SIMILAR_NAME_MATCH"
)

// Contact is a raw address book entry as supplied by a ContactSource.
// It is never mutated; derived facts live on ClassifiedContact.
type Contact struct {
	ID      int64
	Name    string
	Numbers []string
	Emails  []string

	// Source metadata: which external account supplied this entry.
	AccountType string
	AccountName string

	// NormalizedNumber is a best-effort hint from the source, may be empty.
	NormalizedNumber string
}

// PrimaryNumber returns the first non-blank number, or "".
func (c Contact) PrimaryNumber() string {
	for _, n := range c.Numbers {
		if n != "" {
			return n
		}
	}
	return ""
}

// ClassifiedContact is a Contact plus everything the scan learned about it.
type ClassifiedContact struct {
	Contact

	JunkType JunkType

	IsFormatIssue   bool
	CorrectedNumber string

	IsSensitive          bool
	SensitiveType        string
	SensitiveDescription string
	SensitiveConfidence  float64

	DuplicateType DuplicateType

	// MatchingKey is the canonical value (normalized number, lower-cased
	// email or name) that grouped this contact. Written at classification
	// time, overwritten by the duplicate marking passes.
	MatchingKey string
}

// DuplicateGroup is a transient grouping of contacts sharing one matching key.
// Groups are never persisted; the key is written onto each member instead.
type DuplicateGroup struct {
	MatchingKey   string
	DuplicateType DuplicateType
	Contacts      []Contact
}

// ScanResult is an aggregate snapshot of a completed scan, derived entirely
// from the local store.
type ScanResult struct {
	TotalContacts int `json:"total_contacts"`

	JunkCount  int              `json:"junk_count"`
	JunkByType map[JunkType]int `json:"junk_by_type,omitempty"`

	FormatIssueCount int `json:"format_issue_count"`
	SensitiveCount   int `json:"sensitive_count"`

	DuplicateCount  int                   `json:"duplicate_count"`
	DuplicateByType map[DuplicateType]int `json:"duplicate_by_type,omitempty"`
}

// ContactSource supplies raw contacts and accepts write-back operations.
// Batches from StreamContacts must keep all rows of one logical contact
// contiguous; the engine relies on that ordering and does not re-derive it.
type ContactSource interface {
	// EstimatedCount returns the expected number of contacts, best effort.
	EstimatedCount() (int, error)

	// StreamContacts delivers contacts in batches of at most batchSize,
	// invoking fn once per batch. The stream stops early when fn returns an
	// error or ctx is cancelled between batches.
	StreamContacts(ctx context.Context, batchSize int, fn func(batch []Contact) error) error

	// Destructive write-back operations report per-call success.
	DeleteByIDs(ids []int64) bool
	MergeByIDs(ids []int64, customName string) bool
	UpdateNumber(id int64, newNumber string) bool
	Restore(contacts []Contact) bool
}

// ProgressSink receives the discriminated event stream of a scan.
type ProgressSink interface {
	Progress(fraction float64, label string)
	Success(result ScanResult)
	Error(message string)
}

// NopSink discards all events. Useful when the caller only wants the
// returned ScanResult.
type NopSink struct{}

func (NopSink) Progress(float64, string) {}
func (NopSink) Success(ScanResult)       {}
func (NopSink) Error(string)             {}
