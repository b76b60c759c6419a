// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package source provides ContactSource implementations. The CSV source reads
// an exported address book with the columns
// id,name,numbers,emails,account_type,account_name where numbers and emails
// are semicolon-separated. Rows are kept in file order, which satisfies the
// engine's contiguous-contact streaming precondition.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"contact-scan/internal/detector"
	"contact-scan/internal/observability"
)

var csvHeader = []string{"id", "name", "numbers", "emails", "account_type", "account_name"}

// CSVSource is a file-backed ContactSource. Destructive operations rewrite
// the backing file in place.
type CSVSource struct {
	path     string
	observer *observability.StandardObserver
}

// NewCSVSource creates a source reading from path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// SetObserver sets the observability component.
func (s *CSVSource) SetObserver(observer *observability.StandardObserver) {
	s.observer = observer
}

// EstimatedCount returns the number of contacts in the file.
func (s *CSVSource) EstimatedCount() (int, error) {
	contacts, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(contacts), nil
}

// StreamContacts delivers the file's contacts in batches of at most
// batchSize. Cancellation is checked between batches; a cancelled stream
// returns ctx.Err without invoking fn again.
func (s *CSVSource) StreamContacts(ctx context.Context, batchSize int, fn func(batch []detector.Contact) error) error {
	if batchSize <= 0 {
		return fmt.Errorf("invalid batch size %d", batchSize)
	}
	contacts, err := s.load()
	if err != nil {
		return err
	}
	for start := 0; start < len(contacts); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + batchSize
		if end > len(contacts) {
			end = len(contacts)
		}
		if err := fn(contacts[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteByIDs removes the given contacts from the file.
func (s *CSVSource) DeleteByIDs(ids []int64) bool {
	return s.report("delete_by_ids", s.rewrite(func(contacts []detector.Contact) []detector.Contact {
		drop := idSet(ids)
		kept := contacts[:0]
		for _, c := range contacts {
			if !drop[c.ID] {
				kept = append(kept, c)
			}
		}
		return kept
	}))
}

// MergeByIDs collapses the given contacts into the first id, unioning their
// numbers and emails. customName, when non-empty, becomes the merged name.
func (s *CSVSource) MergeByIDs(ids []int64, customName string) bool {
	if len(ids) < 2 {
		return false
	}
	return s.report("merge_by_ids", s.rewrite(func(contacts []detector.Contact) []detector.Contact {
		merge := idSet(ids)
		var merged *detector.Contact
		kept := contacts[:0]
		for i := range contacts {
			c := contacts[i]
			if !merge[c.ID] {
				kept = append(kept, c)
				continue
			}
			if merged == nil {
				keep := c
				kept = append(kept, keep)
				merged = &kept[len(kept)-1]
				continue
			}
			merged.Numbers = appendMissing(merged.Numbers, c.Numbers)
			merged.Emails = appendMissing(merged.Emails, c.Emails)
			if merged.Name == "" {
				merged.Name = c.Name
			}
		}
		if merged != nil && customName != "" {
			merged.Name = customName
		}
		return kept
	}))
}

// UpdateNumber replaces the first occurrence of a number on the contact. The
// corrected number replaces the original raw form.
func (s *CSVSource) UpdateNumber(id int64, newNumber string) bool {
	return s.report("update_number", s.rewrite(func(contacts []detector.Contact) []detector.Contact {
		for i := range contacts {
			if contacts[i].ID != id {
				continue
			}
			if len(contacts[i].Numbers) == 0 {
				contacts[i].Numbers = []string{newNumber}
			} else {
				contacts[i].Numbers[0] = newNumber
			}
			break
		}
		return contacts
	}))
}

// Restore appends previously deleted contacts back to the file.
func (s *CSVSource) Restore(restored []detector.Contact) bool {
	return s.report("restore", s.rewrite(func(contacts []detector.Contact) []detector.Contact {
		return append(contacts, restored...)
	}))
}

func (s *CSVSource) report(operation string, err error) bool {
	if err != nil {
		if s.observer != nil {
			s.observer.LogOperation(observability.StandardObservabilityData{
				Component: "csv_source",
				Operation: operation,
				Subject:   s.path,
				Success:   false,
				Error:     err.Error(),
			})
		}
		return false
	}
	return true
}

func (s *CSVSource) load() ([]detector.Contact, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open contact file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(csvHeader)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse contact file: %w", err)
	}

	var contacts []detector.Contact
	for i, record := range records {
		if i == 0 && record[0] == "id" {
			continue // header row
		}
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid contact id %q on row %d: %w", record[0], i+1, err)
		}
		contacts = append(contacts, detector.Contact{
			ID:          id,
			Name:        record[1],
			Numbers:     splitMulti(record[2]),
			Emails:      splitMulti(record[3]),
			AccountType: record[4],
			AccountName: record[5],
		})
	}
	return contacts, nil
}

func (s *CSVSource) rewrite(mutate func([]detector.Contact) []detector.Contact) error {
	contacts, err := s.load()
	if err != nil {
		return err
	}
	contacts = mutate(contacts)

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to rewrite contact file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range contacts {
		record := []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			strings.Join(c.Numbers, ";"),
			strings.Join(c.Emails, ";"),
			c.AccountType,
			c.AccountName,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write contact %d: %w", c.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func splitMulti(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	parts := strings.Split(field, ";")
	values := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func appendMissing(dst, src []string) []string {
	for _, v := range src {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
