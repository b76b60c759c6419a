// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package store persists classified contacts between scan passes. It is the
// only shared mutable resource of a scan: every write is an idempotent upsert
// or a predicate-scoped update, so a retried scan cannot produce duplicate
// rows or lost updates.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"contact-scan/internal/detector"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	numbers TEXT NOT NULL DEFAULT '[]',
	emails TEXT NOT NULL DEFAULT '[]',
	account_type TEXT NOT NULL DEFAULT '',
	account_name TEXT NOT NULL DEFAULT '',
	junk_type TEXT NOT NULL DEFAULT '',
	is_format_issue INTEGER NOT NULL DEFAULT 0,
	corrected_number TEXT NOT NULL DEFAULT '',
	is_sensitive INTEGER NOT NULL DEFAULT 0,
	sensitive_type TEXT NOT NULL DEFAULT '',
	sensitive_description TEXT NOT NULL DEFAULT '',
	sensitive_confidence REAL NOT NULL DEFAULT 0,
	duplicate_type TEXT NOT NULL DEFAULT '',
	matching_key TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_contacts_matching_key ON contacts(matching_key);
CREATE INDEX IF NOT EXISTS idx_contacts_duplicate_type ON contacts(duplicate_type);
`

// Store is a SQLite-backed record store for classified contacts.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path. Use ":memory:" for an ephemeral
// store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	// The scan pipeline is single-writer; one connection avoids SQLITE_BUSY
	// on concurrent statement interleaving.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Reset deletes every record. Called at the start of a scan.
func (s *Store) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM contacts`); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return nil
}

// UpsertBatch writes a batch of classified contacts in one transaction.
// Re-writing the same contact id replaces the previous row.
func (s *Store) UpsertBatch(contacts []detector.ClassifiedContact) error {
	if len(contacts) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO contacts (
			id, name, numbers, emails, account_type, account_name,
			junk_type, is_format_issue, corrected_number,
			is_sensitive, sensitive_type, sensitive_description, sensitive_confidence,
			duplicate_type, matching_key
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			numbers = excluded.numbers,
			emails = excluded.emails,
			account_type = excluded.account_type,
			account_name = excluded.account_name,
			junk_type = excluded.junk_type,
			is_format_issue = excluded.is_format_issue,
			corrected_number = excluded.corrected_number,
			is_sensitive = excluded.is_sensitive,
			sensitive_type = excluded.sensitive_type,
			sensitive_description = excluded.sensitive_description,
			sensitive_confidence = excluded.sensitive_confidence,
			duplicate_type = excluded.duplicate_type,
			matching_key = excluded.matching_key`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range contacts {
		numbers, err := json.Marshal(c.Numbers)
		if err != nil {
			return fmt.Errorf("failed to encode numbers for contact %d: %w", c.ID, err)
		}
		emails, err := json.Marshal(c.Emails)
		if err != nil {
			return fmt.Errorf("failed to encode emails for contact %d: %w", c.ID, err)
		}
		_, err = stmt.Exec(
			c.ID, c.Name, string(numbers), string(emails), c.AccountType, c.AccountName,
			string(c.JunkType), boolToInt(c.IsFormatIssue), c.CorrectedNumber,
			boolToInt(c.IsSensitive), c.SensitiveType, c.SensitiveDescription, c.SensitiveConfidence,
			string(c.DuplicateType), c.MatchingKey,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert contact %d: %w", c.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// MarkDuplicates stamps the duplicate type and matching key onto the given
// contacts. Rows already marked by an earlier pass are left untouched, which
// gives the number -> email -> name passes first-match-wins semantics.
// Returns the number of rows actually updated.
func (s *Store) MarkDuplicates(dt detector.DuplicateType, key string, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`
		UPDATE contacts SET duplicate_type = ?, matching_key = ?
		WHERE id IN (%s) AND duplicate_type = ''`, placeholders(len(ids)))

	args := make([]any, 0, len(ids)+2)
	args = append(args, string(dt), key)
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark duplicates: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// DeleteByIDs removes the given contacts from the store.
func (s *Store) DeleteByIDs(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM contacts WHERE id IN (%s)`, placeholders(len(ids)))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete contacts: %w", err)
	}
	return nil
}

// Snapshot recomputes the aggregate scan counts from the store.
func (s *Store) Snapshot() (*detector.ScanResult, error) {
	result := &detector.ScanResult{
		JunkByType:      make(map[detector.JunkType]int),
		DuplicateByType: make(map[detector.DuplicateType]int),
	}

	row := s.db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN junk_type != '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(is_format_issue), 0),
			COALESCE(SUM(is_sensitive), 0),
			COALESCE(SUM(CASE WHEN duplicate_type != '' THEN 1 ELSE 0 END), 0)
		FROM contacts`)
	if err := row.Scan(
		&result.TotalContacts, &result.JunkCount, &result.FormatIssueCount,
		&result.SensitiveCount, &result.DuplicateCount,
	); err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}

	if err := s.countBy(`SELECT junk_type, COUNT(*) FROM contacts WHERE junk_type != '' GROUP BY junk_type`,
		func(key string, n int) { result.JunkByType[detector.JunkType(key)] = n }); err != nil {
		return nil, err
	}
	if err := s.countBy(`SELECT duplicate_type, COUNT(*) FROM contacts WHERE duplicate_type != '' GROUP BY duplicate_type`,
		func(key string, n int) { result.DuplicateByType[detector.DuplicateType(key)] = n }); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) countBy(query string, record func(key string, n int)) error {
	rows, err := s.db.Query(query)
	if err != nil {
		return fmt.Errorf("failed to compute breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		record(key, n)
	}
	return rows.Err()
}

// All returns every stored contact ordered by id.
func (s *Store) All() ([]detector.ClassifiedContact, error) {
	return s.query(`SELECT ` + columns + ` FROM contacts ORDER BY id`)
}

// Junk returns contacts flagged with any junk category.
func (s *Store) Junk() ([]detector.ClassifiedContact, error) {
	return s.query(`SELECT ` + columns + ` FROM contacts WHERE junk_type != '' ORDER BY id`)
}

// Sensitive returns contacts flagged as sensitive.
func (s *Store) Sensitive() ([]detector.ClassifiedContact, error) {
	return s.query(`SELECT ` + columns + ` FROM contacts WHERE is_sensitive = 1 ORDER BY id`)
}

// FormatIssues returns contacts with a correctable number format problem.
func (s *Store) FormatIssues() ([]detector.ClassifiedContact, error) {
	return s.query(`SELECT ` + columns + ` FROM contacts WHERE is_format_issue = 1 ORDER BY id`)
}

// DuplicatesOfType returns contacts marked with the given duplicate type.
func (s *Store) DuplicatesOfType(dt detector.DuplicateType) ([]detector.ClassifiedContact, error) {
	return s.query(`SELECT `+columns+` FROM contacts WHERE duplicate_type = ? ORDER BY matching_key, id`, string(dt))
}

// ByMatchingKey returns contacts sharing the given matching key.
func (s *Store) ByMatchingKey(key string) ([]detector.ClassifiedContact, error) {
	return s.query(`SELECT `+columns+` FROM contacts WHERE matching_key = ? ORDER BY id`, key)
}

// SpanningAccounts returns, per matching key, the contacts whose account type
// is in allowedTypes. Only keys present under at least two rows come back;
// the caller decides whether the rows span distinct accounts.
func (s *Store) SpanningAccounts(allowedTypes []string) (map[string][]detector.ClassifiedContact, error) {
	if len(allowedTypes) == 0 {
		return map[string][]detector.ClassifiedContact{}, nil
	}
	query := fmt.Sprintf(`
		SELECT `+columns+` FROM contacts
		WHERE matching_key != '' AND account_type IN (%s)
		ORDER BY matching_key, id`, placeholders(len(allowedTypes)))
	args := make([]any, 0, len(allowedTypes))
	for _, t := range allowedTypes {
		args = append(args, t)
	}
	contacts, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]detector.ClassifiedContact)
	for _, c := range contacts {
		grouped[c.MatchingKey] = append(grouped[c.MatchingKey], c)
	}
	for key, members := range grouped {
		if len(members) < 2 {
			delete(grouped, key)
		}
	}
	return grouped, nil
}

const columns = `id, name, numbers, emails, account_type, account_name,
	junk_type, is_format_issue, corrected_number,
	is_sensitive, sensitive_type, sensitive_description, sensitive_confidence,
	duplicate_type, matching_key`

func (s *Store) query(query string, args ...any) ([]detector.ClassifiedContact, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []detector.ClassifiedContact
	for rows.Next() {
		var c detector.ClassifiedContact
		var numbers, emails, junkType, dupType string
		var formatIssue, sensitiveFlag int
		if err := rows.Scan(
			&c.ID, &c.Name, &numbers, &emails, &c.AccountType, &c.AccountName,
			&junkType, &formatIssue, &c.CorrectedNumber,
			&sensitiveFlag, &c.SensitiveType, &c.SensitiveDescription, &c.SensitiveConfidence,
			&dupType, &c.MatchingKey,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		if err := json.Unmarshal([]byte(numbers), &c.Numbers); err != nil {
			return nil, fmt.Errorf("failed to decode numbers for contact %d: %w", c.ID, err)
		}
		if err := json.Unmarshal([]byte(emails), &c.Emails); err != nil {
			return nil, fmt.Errorf("failed to decode emails for contact %d: %w", c.ID, err)
		}
		c.JunkType = detector.JunkType(junkType)
		c.DuplicateType = detector.DuplicateType(dupType)
		c.IsFormatIssue = formatIssue != 0
		c.IsSensitive = sensitiveFlag != 0
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contact rows: %w", err)
	}
	return contacts, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
