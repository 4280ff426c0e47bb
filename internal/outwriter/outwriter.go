// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints a production report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.Report, cfg *contract.Config) error {
	return WriteReport(report, cfg)
}

// WriteRecord prints the single-record print view using the configured output format.
func (ow *OutWriter) WriteRecord(row *schema.ReportRow, cfg *contract.Config) error {
	return WriteRecord(row, cfg)
}

// WriteCalc prints the derived metrics of an ad-hoc calculation.
func (ow *OutWriter) WriteCalc(result CalcResult, cfg *contract.Config) error {
	return WriteCalc(result, cfg)
}

// WriteCustomers prints the customer directory.
func (ow *OutWriter) WriteCustomers(customers []string, cfg *contract.Config) error {
	return WriteCustomers(customers, cfg)
}

// getMaxCustomerWidth calculates the maximum width for customer names in table output
// based on terminal width.
func getMaxCustomerWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Date + Section + Shift + Net + Downtime + Good + Rejected + Wastage with borders
	const baseWidth = 100

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width < 4 {
		return s
	}
	return string(r[:width-3]) + "..."
}
