// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"contact-scan/internal/config"
	"contact-scan/internal/core"
	"contact-scan/internal/detector"
	"contact-scan/internal/duplicates"
	"contact-scan/internal/help"
	"contact-scan/internal/observability"
	"contact-scan/internal/source"
	"contact-scan/internal/store"
	"contact-scan/internal/version"

	"contact-scan/internal/formatters"
	_ "contact-scan/internal/formatters/json"
	_ "contact-scan/internal/formatters/text"

	"contact-scan/internal/validators/format"
	"contact-scan/internal/validators/junk"
	"contact-scan/internal/validators/sensitive"

	"golang.org/x/term"
)

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	// If config file is not specified, try to find one in standard locations
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	region           string
	format           string
	confidenceLevels string
	batchSize        int
	storePath        string
	accountTypes     []string
	verbose          bool
	debug            bool
	noColor          bool
	showNumbers      bool
	quiet            bool
}

// resolveConfiguration merges config file defaults with command line flags.
// Flags win over config values.
func resolveConfiguration(cfg *config.Config, flags flagValues) finalConfiguration {
	final := finalConfiguration{
		region:           cfg.Defaults.Region,
		format:           cfg.Defaults.Format,
		confidenceLevels: cfg.Defaults.ConfidenceLevels,
		batchSize:        cfg.Defaults.BatchSize,
		storePath:        cfg.Defaults.StorePath,
		accountTypes:     cfg.Defaults.AccountTypes,
		verbose:          cfg.Defaults.Verbose,
		debug:            cfg.Defaults.Debug,
		noColor:          cfg.Defaults.NoColor,
	}

	if flags.region != "" {
		final.region = strings.ToUpper(flags.region)
	}
	if flags.outputFormat != "" {
		final.format = flags.outputFormat
	}
	if flags.confidenceLevels != "" {
		final.confidenceLevels = flags.confidenceLevels
	}
	if flags.batchSize > 0 {
		final.batchSize = flags.batchSize
	}
	if flags.storePath != "" {
		final.storePath = flags.storePath
	}
	if flags.verbose {
		final.verbose = true
	}
	if flags.debug {
		final.debug = true
	}
	if flags.noColor {
		final.noColor = true
	}
	final.showNumbers = flags.showNumbers
	final.quiet = flags.quiet

	if len(final.accountTypes) == 0 {
		final.accountTypes = core.DefaultAccountTypes
	}
	return final
}

// flagValues holds command line flag values
type flagValues struct {
	inputFile        string
	configFile       string
	profileName      string
	region           string
	outputFormat     string
	confidenceLevels string
	batchSize        int
	storePath        string
	standardize      bool
	verbose          bool
	showNumbers      bool
	debug            bool
	quiet            bool
	noColor          bool
	listProfiles     bool
	showHelp         bool
	showVersion      bool
}

// parseConfidenceLevels converts "high,medium" style input into the filter
// map consumed by formatters. "all" or empty disables filtering.
func parseConfidenceLevels(levels string) (map[string]bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(levels))
	if trimmed == "" || trimmed == "all" {
		return nil, nil
	}
	filter := make(map[string]bool)
	for _, level := range strings.Split(trimmed, ",") {
		level = strings.TrimSpace(level)
		switch level {
		case "high", "medium", "low":
			filter[level] = true
		case "":
		default:
			return nil, fmt.Errorf("invalid confidence level %q (valid: high, medium, low, all)", level)
		}
	}
	return filter, nil
}

// newHelpSystem builds the help system with all check providers registered.
func newHelpSystem(noColor bool) *help.System {
	helpSystem := help.NewSystem(noColor)
	helpSystem.RegisterProvider(junk.NewValidator())
	helpSystem.RegisterProvider(sensitive.NewValidator())
	helpSystem.RegisterProvider(format.NewValidator())
	helpSystem.RegisterProvider(duplicates.NewDetector("NG"))
	return helpSystem
}

// handleHelp processes --help invocations. Positional arguments select the
// checks listing or a single check.
func handleHelp(noColor bool, args []string) {
	helpSystem := newHelpSystem(noColor)
	if len(args) == 0 {
		helpSystem.ShowGeneralHelp()
		return
	}
	if strings.EqualFold(args[0], "checks") {
		helpSystem.ShowChecksHelp()
		return
	}
	if !helpSystem.ShowCheckHelp(args[0]) {
		os.Exit(1)
	}
}

// listProfiles prints the profiles available in the loaded configuration.
func listProfiles(cfg *config.Config) {
	if len(cfg.Profiles) == 0 {
		fmt.Println("No profiles defined.")
		return
	}
	var names []string
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available profiles:")
	for _, name := range names {
		profile := cfg.Profiles[name]
		if profile.Description != "" {
			fmt.Printf("  %s - %s\n", name, profile.Description)
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
}

// stderrSink reports scan progress on stderr. Interactive terminals get an
// in-place progress line; non-interactive streams get nothing until the final
// state change.
type stderrSink struct {
	interactive bool
	quiet       bool
	needsEOL    bool
}

func (s *stderrSink) Progress(fraction float64, label string) {
	if s.quiet || !s.interactive {
		return
	}
	fmt.Fprintf(os.Stderr, "\r[%3.0f%%] %-50s", fraction*100, label)
	s.needsEOL = true
}

func (s *stderrSink) finishLine() {
	if s.needsEOL {
		fmt.Fprintln(os.Stderr)
		s.needsEOL = false
	}
}

func (s *stderrSink) Success(result detector.ScanResult) {
	s.finishLine()
}

func (s *stderrSink) Error(message string) {
	s.finishLine()
	if !s.quiet {
		fmt.Fprintf(os.Stderr, "Scan failed: %s\n", message)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func fatalf(formatStr string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+formatStr+"\n", args...)
	os.Exit(1)
}

func main() {
	inputFile := flag.String("file", "", "Path to the exported contacts CSV to scan")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	profileName := flag.String("profile", "", "Profile name to use from config file")
	listProfilesFlag := flag.Bool("list-profiles", false, "List available profiles in config file")
	region := flag.String("region", "", "Operating region for number normalization (default: NG)")
	outputFormat := flag.String("format", "", "Output format: text, json (default: text)")
	confidenceLevels := flag.String("confidence", "", "Confidence levels to display for sensitive findings: high, medium, low, or combinations like 'high,medium'")
	batchSize := flag.Int("batch-size", 0, "Contacts classified and persisted per batch (default: 200)")
	storePath := flag.String("store", "", "Path to the scan database (default: in-memory)")
	standardize := flag.Bool("standardize", false, "Write corrected number formats back to the contact file")
	verbose := flag.Bool("verbose", false, "Display detailed information for each finding")
	showNumbers := flag.Bool("show-numbers", false, "Display raw phone numbers in findings")
	debug := flag.Bool("debug", false, "Enable debug logging of the scan pipeline")
	quiet := flag.Bool("quiet", false, "Suppress progress output (useful for scripts and CI/CD)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	explainCheck := flag.String("explain", "", "Show detailed information about a specific check (e.g. JUNK, SENSITIVE)")
	showHelp := flag.Bool("help", false, "Show help information")
	showVersion := flag.Bool("version", false, "Show version information")

	flag.Parse()

	flags := flagValues{
		inputFile:        *inputFile,
		configFile:       *configFile,
		profileName:      *profileName,
		region:           *region,
		outputFormat:     *outputFormat,
		confidenceLevels: *confidenceLevels,
		batchSize:        *batchSize,
		storePath:        *storePath,
		standardize:      *standardize,
		verbose:          *verbose,
		showNumbers:      *showNumbers,
		debug:            *debug,
		quiet:            *quiet,
		noColor:          *noColor,
		listProfiles:     *listProfilesFlag,
		showHelp:         *showHelp,
		showVersion:      *showVersion,
	}

	if flags.showVersion {
		fmt.Println(version.Info())
		return
	}

	// Auto-detect non-interactive environment
	interactive := isTerminal(os.Stderr)
	if !interactive || flags.quiet || os.Getenv("CI") != "" {
		flags.noColor = true
	}

	if flags.showHelp {
		handleHelp(flags.noColor, flag.Args())
		return
	}

	if *explainCheck != "" {
		handleHelp(flags.noColor, []string{*explainCheck})
		return
	}

	cfg := loadConfiguration(flags.configFile)

	if flags.listProfiles {
		listProfiles(cfg)
		return
	}

	if flags.profileName != "" {
		profile, ok := cfg.GetProfile(flags.profileName)
		if !ok {
			fatalf("profile %q not found in config file", flags.profileName)
		}
		cfg.ApplyProfile(profile)
	}

	final := resolveConfiguration(cfg, flags)

	if flags.inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		fmt.Fprintln(os.Stderr, "Use 'contact-scan --help' for usage information.")
		os.Exit(1)
	}
	if err := formatters.ValidateFormat(final.format); err != nil {
		fatalf("%v", err)
	}
	confidenceFilter, err := parseConfidenceLevels(final.confidenceLevels)
	if err != nil {
		fatalf("%v", err)
	}

	observerLevel := observability.ObservabilityOff
	if final.debug {
		observerLevel = observability.ObservabilityDebug
	}
	observer := observability.NewStandardObserver(observerLevel, os.Stderr)
	if final.debug {
		debugObs := observability.NewDebugObserver(os.Stderr)
		debugObs.LogDetail("main", fmt.Sprintf("Command line arguments: %v", os.Args))
		debugObs.LogDetail("main", fmt.Sprintf("Operating region: %s", final.region))
		observer.DebugObserver = debugObs
	}

	contactSource := source.NewCSVSource(flags.inputFile)
	contactSource.SetObserver(observer)

	scanStore, err := store.Open(final.storePath)
	if err != nil {
		fatalf("failed to open scan store: %v", err)
	}
	defer scanStore.Close()

	sink := &stderrSink{interactive: interactive, quiet: final.quiet}
	scanner := core.NewScanner(core.ScanConfig{
		Region:       final.region,
		BatchSize:    final.batchSize,
		AccountTypes: final.accountTypes,
	}, contactSource, scanStore, sink)
	scanner.SetObserver(observer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := scanner.Scan(ctx)
	if err != nil {
		fatalf("scan failed: %v", err)
	}

	if flags.standardize {
		updated, attempted, err := scanner.StandardizeFormats(ctx)
		if err != nil {
			fatalf("standardization interrupted: %v", err)
		}
		if !final.quiet {
			fmt.Fprintf(os.Stderr, "Standardized %d of %d numbers\n", updated, attempted)
		}
	}

	contacts, err := scanStore.All()
	if err != nil {
		fatalf("failed to load scan results: %v", err)
	}

	formatter, _ := formatters.Get(final.format)
	output, err := formatter.Format(formatters.Report{
		Result:   *result,
		Contacts: contacts,
	}, formatters.FormatterOptions{
		ConfidenceLevel: confidenceFilter,
		Verbose:         final.verbose,
		NoColor:         final.noColor,
		ShowNumbers:     final.showNumbers,
	})
	if err != nil {
		fatalf("failed to format results: %v", err)
	}
	fmt.Println(output)
}
