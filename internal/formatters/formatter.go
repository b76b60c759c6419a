// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"strings"

	"contact-scan/internal/detector"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	ConfidenceLevel map[string]bool // Which confidence levels to display for sensitive findings
	Verbose         bool            // Whether to display detailed information
	NoColor         bool            // Whether to disable colored output
	ShowNumbers     bool            // Whether to display raw phone numbers
}

// Report is the full input handed to a formatter: the aggregate snapshot plus
// the flagged contacts backing it.
type Report struct {
	Result   detector.ScanResult
	Contacts []detector.ClassifiedContact
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the scan report in the formatter's output format
	Format(report Report, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names
func (r *Registry) List() []string {
	var names []string
	for name := range r.formatters {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get retrieves a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List returns the names in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// ValidateFormat returns an error naming the valid formats when name is not
// registered.
func ValidateFormat(name string) error {
	if _, ok := Get(name); !ok {
		return fmt.Errorf("unknown output format %q (valid: %s)", name, strings.Join(List(), ", "))
	}
	return nil
}

// ConfidenceLevel buckets a 0..100 confidence score.
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 90:
		return "HIGH"
	case confidence >= 60:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// ShowConfidence reports whether a score passes the configured level filter.
func ShowConfidence(confidence float64, options FormatterOptions) bool {
	if len(options.ConfidenceLevel) == 0 {
		return true
	}
	return options.ConfidenceLevel[strings.ToLower(ConfidenceLevel(confidence))]
}
