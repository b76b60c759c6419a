// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"contact-scan/internal/detector"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func classified(id int64, name string) detector.ClassifiedContact {
	return detector.ClassifiedContact{
		Contact: detector.Contact{
			ID:      id,
			Name:    name,
			Numbers: []string{"08012345678"},
			Emails:  []string{"a@example.com"},
		},
	}
}

func TestOpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{classified(1, "Ada")}))
	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestUpsertBatchRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := detector.ClassifiedContact{
		Contact: detector.Contact{
			ID:          7,
			Name:        "Ada Obi",
			Numbers:     []string{"08012345678", "+2348098765432"},
			Emails:      []string{"ada@example.com"},
			AccountType: "com.google",
			AccountName: "ada@gmail.com",
		},
		JunkType:             detector.JunkNone,
		IsFormatIssue:        true,
		CorrectedNumber:      "+2348012345678",
		IsSensitive:          false,
		SensitiveConfidence:  0,
		DuplicateType:        detector.DuplicateNone,
		MatchingKey:          "+2348012345678",
	}
	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{in}))

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, in, all[0])
}

func TestUpsertBatchIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	c := classified(1, "Ada")
	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{c}))
	c.Name = "Ada Obi"
	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{c}))

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "Ada Obi", all[0].Name)
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{classified(1, "Ada")}))
	require.NoError(t, s.Reset())

	all, err := s.All()
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestMarkDuplicatesFirstMatchWins(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{
		classified(1, "Ada"),
		classified(2, "Ada Work"),
	}))

	n, err := s.MarkDuplicates(detector.DuplicateNumber, "+2348012345678", []int64{1, 2})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// A later pass must not reassign rows claimed by an earlier one.
	n, err = s.MarkDuplicates(detector.DuplicateName, "ada", []int64{1, 2})
	require.NoError(t, err)
	require.Equal(t, 0, n)

	all, err := s.All()
	require.NoError(t, err)
	for _, c := range all {
		require.Equal(t, detector.DuplicateNumber, c.DuplicateType)
		require.Equal(t, "+2348012345678", c.MatchingKey)
	}
}

func TestMarkDuplicatesPartialOverlap(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{
		classified(1, "Ada"),
		classified(2, "Ada Work"),
		classified(3, "Ada Home"),
	}))

	_, err := s.MarkDuplicates(detector.DuplicateNumber, "+2348012345678", []int64{1, 2})
	require.NoError(t, err)

	n, err := s.MarkDuplicates(detector.DuplicateEmail, "ada@example.com", []int64{2, 3})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	all, err := s.All()
	require.NoError(t, err)
	require.Equal(t, detector.DuplicateNumber, all[1].DuplicateType)
	require.Equal(t, detector.DuplicateEmail, all[2].DuplicateType)
}

func TestDeleteByIDs(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{
		classified(1, "Ada"),
		classified(2, "Ngozi"),
	}))

	require.NoError(t, s.DeleteByIDs([]int64{1}))
	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, int64(2), all[0].ID)
}

func TestSnapshot(t *testing.T) {
	s := openTestStore(t)

	junk := classified(1, "")
	junk.JunkType = detector.JunkNoName

	sensitive := classified(2, "Bank")
	sensitive.IsSensitive = true
	sensitive.SensitiveType = "PAYMENT_CARD"
	sensitive.SensitiveConfidence = 95

	formatIssue := classified(3, "Ada")
	formatIssue.IsFormatIssue = true
	formatIssue.CorrectedNumber = "+2348012345678"

	plain := classified(4, "Ngozi")

	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{junk, sensitive, formatIssue, plain}))
	_, err := s.MarkDuplicates(detector.DuplicateNumber, "+2348012345678", []int64{3, 4})
	require.NoError(t, err)

	result, err := s.Snapshot()
	require.NoError(t, err)
	require.Equal(t, 4, result.TotalContacts)
	require.Equal(t, 1, result.JunkCount)
	require.Equal(t, 1, result.SensitiveCount)
	require.Equal(t, 1, result.FormatIssueCount)
	require.Equal(t, 2, result.DuplicateCount)
	require.Equal(t, 1, result.JunkByType[detector.JunkNoName])
	require.Equal(t, 2, result.DuplicateByType[detector.DuplicateNumber])
}

func TestFilteredQueries(t *testing.T) {
	s := openTestStore(t)

	junk := classified(1, "")
	junk.JunkType = detector.JunkNoName
	sensitive := classified(2, "Bank")
	sensitive.IsSensitive = true
	formatIssue := classified(3, "Ada")
	formatIssue.IsFormatIssue = true
	plain := classified(4, "Ngozi")

	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{junk, sensitive, formatIssue, plain}))

	got, err := s.Junk()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].ID)

	got, err = s.Sensitive()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].ID)

	got, err = s.FormatIssues()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(3), got[0].ID)
}

func TestByMatchingKeyAndDuplicatesOfType(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{
		classified(1, "Ada"),
		classified(2, "Ada Work"),
		classified(3, "Ngozi"),
	}))
	_, err := s.MarkDuplicates(detector.DuplicateNumber, "+2348012345678", []int64{1, 2})
	require.NoError(t, err)

	byKey, err := s.ByMatchingKey("+2348012345678")
	require.NoError(t, err)
	require.Len(t, byKey, 2)

	byType, err := s.DuplicatesOfType(detector.DuplicateNumber)
	require.NoError(t, err)
	require.Len(t, byType, 2)
}

func TestSpanningAccounts(t *testing.T) {
	s := openTestStore(t)

	google := classified(1, "Ada")
	google.AccountType = "com.google"
	google.MatchingKey = "+2348012345678"

	local := classified(2, "Ada")
	local.AccountType = "local"
	local.MatchingKey = "+2348012345678"

	excluded := classified(3, "Ada")
	excluded.AccountType = "com.whatsapp"
	excluded.MatchingKey = "+2348012345678"

	lone := classified(4, "Ngozi")
	lone.AccountType = "com.google"
	lone.MatchingKey = "+2348098765432"

	require.NoError(t, s.UpsertBatch([]detector.ClassifiedContact{google, local, excluded, lone}))

	grouped, err := s.SpanningAccounts([]string{"com.google", "local"})
	require.NoError(t, err)
	require.Len(t, grouped, 1)
	require.Len(t, grouped["+2348012345678"], 2)

	// Keys with a single allowed-type member are dropped.
	_, ok := grouped["+2348098765432"]
	require.False(t, ok)

	grouped, err = s.SpanningAccounts(nil)
	require.NoError(t, err)
	require.Empty(t, grouped)
}
