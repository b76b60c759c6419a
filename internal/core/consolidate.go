// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"
	"sort"

	"contact-scan/internal/detector"
	"contact-scan/internal/resilience"
)

// AccountRef identifies one external account source.
type AccountRef struct {
	Type string
	Name string
}

// DefaultAccountTypes is the allow-list of account-type categories the
// consolidator considers. App-synced accounts (messaging services and the
// like) replicate contacts by design and are not duplicates of the user's
// own data.
var DefaultAccountTypes = []string{
	"com.google",
	"com.apple",
	"com.microsoft.exchange",
	"vnd.sec.contact.phone",
	"local",
}

// CrossAccountGroups finds contacts replicated across multiple external
// account sources. A group qualifies only when its members span at least two
// distinct (accountType, accountName) pairs.
func (s *Scanner) CrossAccountGroups() ([]detector.DuplicateGroup, error) {
	allowed := s.cfg.AccountTypes
	if len(allowed) == 0 {
		allowed = DefaultAccountTypes
	}
	grouped, err := s.store.SpanningAccounts(allowed)
	if err != nil {
		return nil, fmt.Errorf("failed to load cross-account candidates: %w", err)
	}

	var groups []detector.DuplicateGroup
	for key, members := range grouped {
		accounts := make(map[AccountRef]bool)
		contacts := make([]detector.Contact, 0, len(members))
		for _, m := range members {
			accounts[AccountRef{Type: m.AccountType, Name: m.AccountName}] = true
			contacts = append(contacts, m.Contact)
		}
		if len(accounts) < 2 {
			continue
		}
		sort.Slice(contacts, func(i, j int) bool {
			if contacts[i].Name != contacts[j].Name {
				return contacts[i].Name < contacts[j].Name
			}
			return contacts[i].ID < contacts[j].ID
		})
		groups = append(groups, detector.DuplicateGroup{
			MatchingKey:   key,
			DuplicateType: detector.DuplicateNumber,
			Contacts:      contacts,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].MatchingKey < groups[j].MatchingKey })
	return groups, nil
}

// Consolidate keeps the instances of key under the keep account and deletes
// every other-account instance, one contact at a time so that each delete is
// independently retryable. Returns how many deletes succeeded out of those
// attempted; a single failure does not abort the rest.
func (s *Scanner) Consolidate(ctx context.Context, key string, keep AccountRef) (deleted, attempted int, err error) {
	members, err := s.store.ByMatchingKey(key)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load contacts for key %q: %w", key, err)
	}
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return deleted, attempted, err
		}
		if m.AccountType == keep.Type && m.AccountName == keep.Name {
			continue
		}
		attempted++
		// Source deletes race against provider sync; transient failures are
		// retried before the contact is skipped.
		id := m.ID
		deleteErr := resilience.RetryWithBackoff(ctx, resilience.WriteBackRetryConfig(), func(ctx context.Context) error {
			if !s.source.DeleteByIDs([]int64{id}) {
				return resilience.NewTransientError(fmt.Sprintf("source delete failed for contact %d", id), nil)
			}
			return nil
		})
		if deleteErr != nil {
			continue
		}
		if err := s.store.DeleteByIDs([]int64{m.ID}); err != nil {
			return deleted, attempted, fmt.Errorf("failed to drop consolidated contact %d: %w", m.ID, err)
		}
		deleted++
	}
	return deleted, attempted, nil
}
