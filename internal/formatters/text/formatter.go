// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"sort"
	"strings"

	"contact-scan/internal/detector"
	"contact-scan/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var b strings.Builder

	f.appendSummary(&b, report.Result)

	flagged := filterFlagged(report.Contacts, options)
	if len(flagged) == 0 {
		b.WriteString("\nNo problematic contacts found.\n")
		return b.String(), nil
	}

	b.WriteString("\n")
	f.colors["white"].Fprintln(&b, "Findings")
	for _, c := range flagged {
		f.appendContact(&b, c, options)
	}
	return b.String(), nil
}

func (f *Formatter) appendSummary(b *strings.Builder, result detector.ScanResult) {
	f.colors["white"].Fprintln(b, "Scan summary")
	fmt.Fprintf(b, "  Contacts scanned:  %d\n", result.TotalContacts)
	fmt.Fprintf(b, "  Junk:              %d\n", result.JunkCount)
	for _, jt := range sortedJunkTypes(result.JunkByType) {
		fmt.Fprintf(b, "    %-18s %d\n", string(jt)+":", result.JunkByType[jt])
	}
	fmt.Fprintf(b, "  Format issues:     %d\n", result.FormatIssueCount)
	fmt.Fprintf(b, "  Sensitive:         %d\n", result.SensitiveCount)
	fmt.Fprintf(b, "  Duplicates:        %d\n", result.DuplicateCount)
	for _, dt := range sortedDupTypes(result.DuplicateByType) {
		fmt.Fprintf(b, "    %-18s %d\n", string(dt)+":", result.DuplicateByType[dt])
	}
}

func (f *Formatter) appendContact(b *strings.Builder, c detector.ClassifiedContact, options formatters.FormatterOptions) {
	name := c.Name
	if name == "" {
		name = "(no name)"
	}
	fmt.Fprintf(b, "\n  #%d %s\n", c.ID, name)

	switch {
	case c.IsSensitive:
		level := formatters.ConfidenceLevel(c.SensitiveConfidence)
		f.levelColor(level).Fprintf(b, "    SENSITIVE [%s %s]", c.SensitiveType, level)
		fmt.Fprintf(b, " %s\n", c.SensitiveDescription)
	case c.JunkType != detector.JunkNone:
		f.colors["yellow"].Fprintf(b, "    JUNK [%s]\n", c.JunkType)
	case c.IsFormatIssue:
		f.colors["cyan"].Fprintf(b, "    FORMAT")
		fmt.Fprintf(b, " correct to %s\n", c.CorrectedNumber)
	}
	if c.DuplicateType != detector.DuplicateNone {
		f.colors["magenta"].Fprintf(b, "    DUPLICATE [%s]", c.DuplicateType)
		fmt.Fprintf(b, " key %s\n", c.MatchingKey)
	}

	if options.Verbose || options.ShowNumbers {
		if len(c.Numbers) > 0 {
			fmt.Fprintf(b, "    numbers: %s\n", strings.Join(c.Numbers, ", "))
		}
		if options.Verbose && len(c.Emails) > 0 {
			fmt.Fprintf(b, "    emails: %s\n", strings.Join(c.Emails, ", "))
		}
		if options.Verbose && c.AccountType != "" {
			fmt.Fprintf(b, "    account: %s/%s\n", c.AccountType, c.AccountName)
		}
	}
}

func (f *Formatter) levelColor(level string) *color.Color {
	switch level {
	case "HIGH":
		return f.colors["red"]
	case "MEDIUM":
		return f.colors["yellow"]
	}
	return f.colors["green"]
}

// filterFlagged keeps contacts carrying any finding, applying the confidence
// filter to sensitive matches only: structural findings have no score.
func filterFlagged(contacts []detector.ClassifiedContact, options formatters.FormatterOptions) []detector.ClassifiedContact {
	var flagged []detector.ClassifiedContact
	for _, c := range contacts {
		if c.IsSensitive && !formatters.ShowConfidence(c.SensitiveConfidence, options) {
			continue
		}
		if c.IsSensitive || c.JunkType != detector.JunkNone || c.IsFormatIssue ||
			c.DuplicateType != detector.DuplicateNone {
			flagged = append(flagged, c)
		}
	}
	return flagged
}

func sortedJunkTypes(m map[detector.JunkType]int) []detector.JunkType {
	keys := make([]detector.JunkType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedDupTypes(m map[detector.DuplicateType]int) []detector.DuplicateType {
	keys := make([]detector.DuplicateType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func init() {
	formatters.Register(NewFormatter())
}
