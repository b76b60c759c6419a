// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"contact-scan/internal/detector"
)

const sampleCSV = `id,name,numbers,emails,account_type,account_name
1,Ada Obi,08012345678;+2348098765432,ada@example.com,com.google,ada@gmail.com
2,Ngozi Eze,08087654321,,local,device
3,Card,4111111111111111,card@example.com;billing@example.com,com.google,ada@gmail.com
`

func writeSample(t *testing.T) *CSVSource {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return NewCSVSource(path)
}

func streamAll(t *testing.T, s *CSVSource, batchSize int) []detector.Contact {
	t.Helper()
	var all []detector.Contact
	err := s.StreamContacts(context.Background(), batchSize, func(batch []detector.Contact) error {
		all = append(all, batch...)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamContacts returned error: %v", err)
	}
	return all
}

func TestEstimatedCount(t *testing.T) {
	s := writeSample(t)
	n, err := s.EstimatedCount()
	if err != nil {
		t.Fatalf("EstimatedCount returned error: %v", err)
	}
	if n != 3 {
		t.Errorf("EstimatedCount = %d, want 3", n)
	}
}

func TestStreamContacts(t *testing.T) {
	s := writeSample(t)
	all := streamAll(t, s, 2)

	if len(all) != 3 {
		t.Fatalf("streamed %d contacts, want 3", len(all))
	}
	first := all[0]
	if first.ID != 1 || first.Name != "Ada Obi" {
		t.Errorf("first contact = %+v", first)
	}
	if len(first.Numbers) != 2 || first.Numbers[1] != "+2348098765432" {
		t.Errorf("first contact numbers = %v", first.Numbers)
	}
	if len(all[1].Emails) != 0 {
		t.Errorf("second contact emails = %v, want none", all[1].Emails)
	}
	if len(all[2].Emails) != 2 {
		t.Errorf("third contact emails = %v, want 2", all[2].Emails)
	}
}

func TestStreamContactsBatchSizes(t *testing.T) {
	s := writeSample(t)
	var batches []int
	err := s.StreamContacts(context.Background(), 2, func(batch []detector.Contact) error {
		batches = append(batches, len(batch))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(batches) != 2 || batches[0] != 2 || batches[1] != 1 {
		t.Errorf("batch sizes = %v, want [2 1]", batches)
	}
}

func TestStreamContactsInvalidBatchSize(t *testing.T) {
	s := writeSample(t)
	err := s.StreamContacts(context.Background(), 0, func([]detector.Contact) error { return nil })
	if err == nil {
		t.Error("expected error for batch size 0")
	}
}

func TestStreamContactsCancellation(t *testing.T) {
	s := writeSample(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.StreamContacts(ctx, 1, func([]detector.Contact) error {
		t.Error("callback invoked after cancellation")
		return nil
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDeleteByIDs(t *testing.T) {
	s := writeSample(t)
	if !s.DeleteByIDs([]int64{2}) {
		t.Fatal("DeleteByIDs reported failure")
	}
	all := streamAll(t, s, 10)
	if len(all) != 2 {
		t.Fatalf("got %d contacts after delete, want 2", len(all))
	}
	for _, c := range all {
		if c.ID == 2 {
			t.Error("contact 2 still present after delete")
		}
	}
}

func TestMergeByIDs(t *testing.T) {
	s := writeSample(t)
	if !s.MergeByIDs([]int64{1, 3}, "Ada Merged") {
		t.Fatal("MergeByIDs reported failure")
	}
	all := streamAll(t, s, 10)
	if len(all) != 2 {
		t.Fatalf("got %d contacts after merge, want 2", len(all))
	}

	var merged *detector.Contact
	for i := range all {
		if all[i].ID == 1 {
			merged = &all[i]
		}
	}
	if merged == nil {
		t.Fatal("merged contact 1 not found")
	}
	if merged.Name != "Ada Merged" {
		t.Errorf("merged name = %q, want Ada Merged", merged.Name)
	}
	if len(merged.Numbers) != 3 {
		t.Errorf("merged numbers = %v, want union of 3", merged.Numbers)
	}
	if len(merged.Emails) != 3 {
		t.Errorf("merged emails = %v, want union of 3", merged.Emails)
	}
}

func TestMergeByIDsRequiresTwo(t *testing.T) {
	s := writeSample(t)
	if s.MergeByIDs([]int64{1}, "") {
		t.Error("MergeByIDs should fail with fewer than two ids")
	}
}

func TestUpdateNumber(t *testing.T) {
	s := writeSample(t)
	if !s.UpdateNumber(2, "+2348087654321") {
		t.Fatal("UpdateNumber reported failure")
	}
	all := streamAll(t, s, 10)
	for _, c := range all {
		if c.ID == 2 && c.Numbers[0] != "+2348087654321" {
			t.Errorf("contact 2 numbers = %v", c.Numbers)
		}
	}
}

func TestRestore(t *testing.T) {
	s := writeSample(t)
	s.DeleteByIDs([]int64{2})
	if !s.Restore([]detector.Contact{{ID: 2, Name: "Ngozi Eze", Numbers: []string{"08087654321"}}}) {
		t.Fatal("Restore reported failure")
	}
	all := streamAll(t, s, 10)
	if len(all) != 3 {
		t.Errorf("got %d contacts after restore, want 3", len(all))
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := NewCSVSource("/nonexistent/contacts.csv")
	if _, err := s.EstimatedCount(); err == nil {
		t.Error("expected error for missing file")
	}
	if s.DeleteByIDs([]int64{1}) {
		t.Error("DeleteByIDs should report failure for missing file")
	}
}
