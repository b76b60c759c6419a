// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// CheckInfo contains standardized information about a check
type CheckInfo struct {
	Name                string   // Name of the check (e.g., "JUNK")
	ShortDescription    string   // Short description for the checks list
	DetailedDescription string   // Detailed description of what the check does
	Patterns            []string // Patterns or rules the check applies
	Examples            []string // Usage examples
}

// Provider defines the interface for help content providers
type Provider interface {
	GetCheckInfo() CheckInfo
}

// System manages help content for the application
type System struct {
	providers map[string]Provider
	noColor   bool
	colors    map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}

	return &System{
		providers: make(map[string]Provider),
		noColor:   noColor,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"negative": color.New(color.FgRed),
			"example":  color.New(color.FgMagenta),
		},
	}
}

// RegisterProvider adds a help provider to the system
func (h *System) RegisterProvider(provider Provider) {
	info := provider.GetCheckInfo()
	h.providers[strings.ToLower(info.Name)] = provider
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Println("Contact Scan - Contact Hygiene Analysis Tool")
	fmt.Println("============================================")
	fmt.Println()
	h.colors["header"].Println("USAGE:")
	fmt.Println("  contact-scan --file <contacts.csv> [options]")
	fmt.Println()

	h.colors["header"].Println("OPTIONS:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --file\t<path>\tPath to the exported contacts CSV to scan (required)")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  --region\t<code>\tOperating region for number normalization (default: NG)")
	fmt.Fprintln(w, "  --format\t<format>\tOutput format: text, json (default: text)")
	fmt.Fprintln(w, "  --confidence\t<levels>\tConfidence levels for sensitive findings: high,medium,low,all (default: all)")
	fmt.Fprintln(w, "  --batch-size\t<n>\tContacts classified and persisted per batch (default: 200)")
	fmt.Fprintln(w, "  --store\t<path>\tPath to the scan database (default: in-memory)")
	fmt.Fprintln(w, "  --standardize\t\tWrite corrected number formats back to the contact file")
	fmt.Fprintln(w, "  --verbose\t\tDisplay detailed information for each finding")
	fmt.Fprintln(w, "  --show-numbers\t\tDisplay raw phone numbers in findings")
	fmt.Fprintln(w, "  --debug\t\tEnable debug logging of the scan pipeline")
	fmt.Fprintln(w, "  --quiet\t\tSuppress progress output")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	fmt.Fprintln(w, "  --help checks\t\tList all available checks")
	fmt.Fprintln(w, "  --help <check>\t\tShow detailed help for a specific check")
	w.Flush()

	fmt.Println()
	h.colors["header"].Println("EXAMPLES:")
	h.colors["example"].Println("  contact-scan --file contacts.csv")
	h.colors["example"].Println("  contact-scan --file contacts.csv --region NG --format json")
	h.colors["example"].Println("  contact-scan --file contacts.csv --standardize")
	fmt.Println()
	h.colors["header"].Println("CONFIGURATION:")
	fmt.Println("  Project config: contact-scan.yaml (in current directory)")
	fmt.Println("  User config: <user-config-dir>/contact-scan/config.yaml")
}

// ShowChecksHelp displays information about all available checks
func (h *System) ShowChecksHelp() {
	h.colors["title"].Println("Available Checks in Contact Scan")
	fmt.Println("================================")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	h.colors["header"].Fprintln(w, "  CHECK\tDESCRIPTION")
	h.colors["header"].Fprintln(w, "  -----\t-----------")

	var names []string
	for _, provider := range h.providers {
		names = append(names, provider.GetCheckInfo().Name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := h.providers[strings.ToLower(name)].GetCheckInfo()
		fmt.Fprintf(w, "  ")
		h.colors["emphasis"].Fprintf(w, "%s", info.Name)
		fmt.Fprintf(w, "\t%s\n", info.ShortDescription)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("For detailed information about a specific check, use:")
	h.colors["example"].Println("  contact-scan --help <check>")
}

// ShowCheckHelp displays detailed help for a specific check
func (h *System) ShowCheckHelp(checkName string) bool {
	provider, exists := h.providers[strings.ToLower(checkName)]
	if !exists {
		h.colors["negative"].Printf("Error: Check '%s' not found.\n", checkName)
		fmt.Println("Use 'contact-scan --help checks' to see a list of available checks.")
		return false
	}

	info := provider.GetCheckInfo()

	h.colors["title"].Printf("%s Check\n", info.Name)
	fmt.Println(strings.Repeat("=", len(info.Name)+6))
	fmt.Println()
	fmt.Println(info.DetailedDescription)
	fmt.Println()

	if len(info.Patterns) > 0 {
		h.colors["header"].Println("RULES APPLIED:")
		for _, pattern := range info.Patterns {
			fmt.Print("  - ")
			h.colors["item"].Println(pattern)
		}
		fmt.Println()
	}

	if len(info.Examples) > 0 {
		h.colors["header"].Println("EXAMPLES:")
		for _, example := range info.Examples {
			fmt.Print("  ")
			h.colors["example"].Println(example)
		}
	}

	return true
}
