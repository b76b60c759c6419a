// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core orchestrates a contact hygiene scan: it streams raw contacts
// from a ContactSource through the classifiers, persists classified batches
// to the local store, runs the set-based duplicate marking passes, and
// publishes aggregate results through a ProgressSink.
package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"contact-scan/internal/detector"
	"contact-scan/internal/duplicates"
	"contact-scan/internal/observability"
	"contact-scan/internal/phone"
	"contact-scan/internal/resilience"
	"contact-scan/internal/store"
	"contact-scan/internal/validators/format"
	"contact-scan/internal/validators/junk"
	"contact-scan/internal/validators/sensitive"
)

// State is the scan lifecycle position.
type State int

const (
	StateIdle State = iota
	StateInitializing
	StateFetching
	StateStreaming
	StatePostProcessing
	StateFinalizing
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateFetching:
		return "fetching"
	case StateStreaming:
		return "streaming"
	case StatePostProcessing:
		return "post-processing"
	case StateFinalizing:
		return "finalizing"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	}
	return "unknown"
}

// Progress fraction bands per state. Streaming never reports the full band
// until the batch stream itself has ended.
const (
	streamingCeiling     = 0.80
	postProcessingFloor  = 0.80
	finalizingFloor      = 0.95
	defaultCountEstimate = 1000
	defaultBatchSize     = 200
)

// ScanConfig holds the knobs of a scan.
type ScanConfig struct {
	// Region is the operating region for phone normalization and the
	// sensitive data whitelist.
	Region string

	// BatchSize controls how many contacts are classified and persisted
	// per batch.
	BatchSize int

	// AccountTypes is the allow-list of account-type categories considered
	// by the cross-account consolidator.
	AccountTypes []string
}

// Scanner runs scans against one ContactSource and one Store. Only one scan
// may run at a time; a second Scan call blocks until the first finishes.
type Scanner struct {
	// scanMu serializes whole scans: a second Scan call blocks until the
	// active one finishes.
	scanMu sync.Mutex

	mu    sync.Mutex
	state State

	cfg    ScanConfig
	source detector.ContactSource
	store  *store.Store
	sink   detector.ProgressSink

	sensitive *sensitive.Validator
	junk      *junk.Validator
	format    *format.Validator
	dups      *duplicates.Detector

	observer *observability.StandardObserver
}

// NewScanner wires a scanner from its collaborators. A nil sink discards
// progress events.
func NewScanner(cfg ScanConfig, source detector.ContactSource, st *store.Store, sink detector.ProgressSink) *Scanner {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if sink == nil {
		sink = detector.NopSink{}
	}
	return &Scanner{
		state:     StateIdle,
		cfg:       cfg,
		source:    source,
		store:     st,
		sink:      sink,
		sensitive: sensitive.NewValidator(),
		junk:      junk.NewValidator(),
		format:    format.NewValidator(),
		dups:      duplicates.NewDetector(cfg.Region),
	}
}

// SetObserver sets the observability component, propagated to classifiers.
func (s *Scanner) SetObserver(observer *observability.StandardObserver) {
	s.observer = observer
	s.sensitive.SetObserver(observer)
	s.junk.SetObserver(observer)
	s.format.SetObserver(observer)
}

// State returns the current scan state.
func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scanner) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Scan runs a full scan and returns the aggregate result. Any error during
// streaming or persistence fails the scan; batches persisted before the
// failure are left intact, since a re-run starts from a store reset anyway.
func (s *Scanner) Scan(ctx context.Context) (*detector.ScanResult, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	var finishTiming func(bool, map[string]interface{})
	if s.observer != nil {
		finishTiming = s.observer.StartTiming("scanner", "scan", s.cfg.Region)
	}

	result, err := s.scan(ctx)
	if err != nil {
		s.setState(StateFailure)
		s.sink.Error(err.Error())
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, err
	}

	s.setState(StateSuccess)
	s.sink.Progress(1.0, "Scan complete")
	s.sink.Success(*result)
	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{"total_contacts": result.TotalContacts})
	}
	return result, nil
}

func (s *Scanner) scan(ctx context.Context) (*detector.ScanResult, error) {
	// Initializing: destructive reset for a fresh scan. Callers needing
	// undo must snapshot beforehand.
	s.setState(StateInitializing)
	s.sink.Progress(0, "Preparing scan")
	if err := s.store.Reset(); err != nil {
		return nil, fmt.Errorf("scan initialization failed: %w", err)
	}

	// Fetching: best-effort count. A failure degrades to a fixed estimate
	// so progress reporting never divides by zero.
	s.setState(StateFetching)
	total, err := s.source.EstimatedCount()
	if err != nil || total <= 0 {
		total = defaultCountEstimate
	}

	// Streaming: classify and persist batch by batch.
	s.setState(StateStreaming)
	processed := 0
	err = s.source.StreamContacts(ctx, s.cfg.BatchSize, func(batch []detector.Contact) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		classified := make([]detector.ClassifiedContact, 0, len(batch))
		for _, c := range batch {
			classified = append(classified, s.classify(c))
		}
		if err := s.store.UpsertBatch(classified); err != nil {
			return err
		}
		processed += len(batch)
		fraction := streamingCeiling * float64(processed) / float64(total)
		if fraction > streamingCeiling {
			fraction = streamingCeiling
		}
		s.sink.Progress(fraction, fmt.Sprintf("Analyzed %d contacts", processed))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan streaming failed: %w", err)
	}

	// PostProcessing: set-based duplicate marking, strongest signal first.
	s.setState(StatePostProcessing)
	if err := s.markDuplicates(); err != nil {
		return nil, fmt.Errorf("duplicate marking failed: %w", err)
	}

	// Finalizing: aggregates always come from the store, never from
	// in-memory collections.
	s.setState(StateFinalizing)
	s.sink.Progress(finalizingFloor, "Computing summary")
	result, err := s.store.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("scan finalization failed: %w", err)
	}
	return result, nil
}

// classify runs the per-record classifier chain. Sensitive suppresses junk,
// and format analysis only runs when the contact is neither sensitive nor
// junk, so the three flags are mutually exclusive by construction.
func (s *Scanner) classify(c detector.Contact) detector.ClassifiedContact {
	cc := detector.ClassifiedContact{Contact: c}
	primary := c.PrimaryNumber()

	for _, number := range c.Numbers {
		if m := s.sensitive.Analyze(number, s.cfg.Region); m != nil {
			cc.IsSensitive = true
			cc.SensitiveType = m.Type
			cc.SensitiveDescription = m.Description
			cc.SensitiveConfidence = m.Confidence
			break
		}
	}

	if !cc.IsSensitive {
		cc.JunkType = s.junk.Classify(c.Name, primary)
	}

	if !cc.IsSensitive && cc.JunkType == detector.JunkNone &&
		primary != "" && !strings.HasPrefix(strings.TrimSpace(primary), "+") {
		if issue := s.format.Analyze(primary, s.cfg.Region); issue != nil {
			cc.IsFormatIssue = true
			cc.CorrectedNumber = issue.NormalizedNumber
		}
	}

	cc.MatchingKey = s.matchingKey(c, primary)
	return cc
}

// matchingKey picks the canonical grouping value for a contact: normalized
// number first, then email, then name.
func (s *Scanner) matchingKey(c detector.Contact, primary string) string {
	if primary != "" {
		if key := phone.Normalize(primary, s.cfg.Region); key != "" {
			return key
		}
	}
	for _, email := range c.Emails {
		if trimmed := strings.ToLower(strings.TrimSpace(email)); trimmed != "" {
			return trimmed
		}
	}
	return duplicates.NameKey(c.Name)
}

// markDuplicates runs the duplicate passes against the store in fixed order:
// number, email, name, then similar name. The store update skips rows already
// marked, so an earlier pass is never overwritten by a later one.
func (s *Scanner) markDuplicates() error {
	classified, err := s.store.All()
	if err != nil {
		return err
	}
	contacts := make([]detector.Contact, 0, len(classified))
	for _, cc := range classified {
		contacts = append(contacts, cc.Contact)
	}

	passes := []struct {
		fraction float64
		label    string
		groups   []detector.DuplicateGroup
	}{
		{0.82, "Matching numbers", s.dups.ByNumber(contacts)},
		{0.86, "Matching emails", s.dups.ByEmail(contacts)},
		{0.90, "Matching names", s.dups.ByName(contacts)},
		{0.93, "Matching similar names", s.dups.BySimilarName(contacts)},
	}
	for _, pass := range passes {
		for _, group := range pass.groups {
			ids := make([]int64, 0, len(group.Contacts))
			for _, c := range group.Contacts {
				ids = append(ids, c.ID)
			}
			if _, err := s.store.MarkDuplicates(group.DuplicateType, group.MatchingKey, ids); err != nil {
				return err
			}
		}
		s.sink.Progress(pass.fraction, pass.label)
	}
	return nil
}

// StandardizeFormats pushes every stored format correction back to the
// contact source. Failures are counted, not fatal: the return values are the
// number of successful updates and the number attempted.
func (s *Scanner) StandardizeFormats(ctx context.Context) (updated, attempted int, err error) {
	issues, err := s.store.FormatIssues()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load format issues: %w", err)
	}
	for _, c := range issues {
		if err := ctx.Err(); err != nil {
			return updated, attempted, err
		}
		attempted++
		id, corrected := c.ID, c.CorrectedNumber
		updateErr := resilience.RetryWithBackoff(ctx, resilience.WriteBackRetryConfig(), func(ctx context.Context) error {
			if !s.source.UpdateNumber(id, corrected) {
				return resilience.NewTransientError(fmt.Sprintf("number update failed for contact %d", id), nil)
			}
			return nil
		})
		if updateErr != nil {
			continue
		}
		updated++
	}
	return updated, attempted, nil
}
