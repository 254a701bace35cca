package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	tabwrap "github.com/alnah/go-tabwrap"
)

var (
	// successStyle for per-file success markers
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for per-file failure markers
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// dimStyle for muted metadata text (durations, reason codes)
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// countStyle for the final tally line
	countStyle = lipgloss.NewStyle().
			Bold(true)
)

// printSummary renders the end-of-run report: one line per source in
// batch order, failure reasons with hints, and the final tally. No item
// is ever omitted; quiet mode suppresses successes only.
func printSummary(w io.Writer, report *tabwrap.BatchReport, combined *tabwrap.CombinedArtifact, quiet, verbose bool) {
	for _, o := range report.Entries {
		if o.OK() {
			if quiet {
				continue
			}
			line := fmt.Sprintf("%s %s -> %s", successStyle.Render("✓"), o.Source, o.ArtifactPath)
			if verbose {
				line += dimStyle.Render(fmt.Sprintf(" (%s)", o.Duration.Round(1e6)))
			}
			fmt.Fprintln(w, line)
			if verbose {
				for _, warn := range o.Warnings {
					fmt.Fprintln(w, dimStyle.Render("    "+warn))
				}
			}
			continue
		}

		fmt.Fprintf(w, "%s %s %s\n", errorStyle.Render("✗"), o.Source,
			dimStyle.Render("["+string(o.Err.Reason)+"]"))
		fmt.Fprintf(w, "    %s\n", o.Err.Message)
		if o.Err.Hint != "" {
			fmt.Fprintln(w, dimStyle.Render("  "+o.Err.Hint))
		}
		if verbose && o.Err.Excerpt != "" {
			fmt.Fprintln(w, dimStyle.Render("    "+o.Err.Excerpt))
		}
	}

	if combined != nil {
		fmt.Fprintf(w, "%s combined %d tables -> %s\n",
			successStyle.Render("✓"), len(combined.Bookmarks), combined.Path)
	}

	if !quiet || report.Failed() > 0 {
		fmt.Fprintln(w, countStyle.Render(
			fmt.Sprintf("%d succeeded, %d failed", report.Succeeded(), report.Failed())))
	}
}
