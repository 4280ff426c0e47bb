package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/parquet"
	"github.com/blowline/shiftlog/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteReport outputs a production report, dispatching based on the output format configured.
// Binary formats without an output file are written next to the working directory
// under the report's download name.
func WriteReport(report *schema.Report, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, report)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.XLSXOut:
		outputFile := cfg.OutputFile
		if outputFile == "" {
			outputFile = report.FileName
		}
		if err := writeWithFile(outputFile, func(w io.Writer) error {
			return WriteReportXLSX(w, report)
		}, "Wrote workbook"); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
	case schema.ParquetOut:
		outputFile := cfg.OutputFile
		if outputFile == "" {
			outputFile = strings.TrimSuffix(report.FileName, ".xlsx") + ".parquet"
		}
		if err := writeWithFile(outputFile, func(w io.Writer) error {
			return parquet.WriteReportRecords(w, parquet.FromReportRows(report.Rows))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(w, report, cfg)
		}, "Wrote table")
	}
	return nil
}

// writeReportCSV writes every report column in workbook order.
func writeReportCSV(w io.Writer, report *schema.Report) error {
	return writeCSVWithHeader(w, schema.ReportHeaders(), func(csvWriter *csv.Writer) error {
		for i := range report.Rows {
			if err := csvWriter.Write(report.Rows[i].Values()); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeReportTable generates and writes the human-readable summary table.
func writeReportTable(writer io.Writer, report *schema.Report, cfg *contract.Config) error {
	heading := headingFunc(cfg.UseColors)

	if _, err := fmt.Fprintln(writer, heading(report.SheetName)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Date", "Section", "Shift", "Customer", "Net Hrs", "Downtime", "Good", "Rejected", "Wastage"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	customerWidth := getMaxCustomerWidth(cfg)
	var data [][]string
	var alerts int
	for i := range report.Rows {
		r := &report.Rows[i]
		if r.WastageAlert {
			alerts++
		}
		data = append(data, []string{
			r.Record.Date,
			string(r.Record.Section),
			contract.DisplayOrDash(r.Record.Shift),
			truncate(r.Record.CustomerName, customerWidth),
			r.NetRunningHours,
			r.TotalDowntimeHours,
			contract.DisplayOrZero(r.Record.GoodBottles.String()),
			contract.DisplayOrZero(r.Record.RejectedBottles.String()),
			wastageText(r.WastagePercentage, r.WastageAlert, cfg.UseColors),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	summary := summarizeReport(report)
	if _, err := fmt.Fprintf(writer, "Showing %d records (net running: %.2f hrs, downtime: %.2f hrs, above wastage alert: %d)\n",
		len(report.Rows), summary.netHours, summary.downtimeHours, alerts); err != nil {
		return err
	}
	if summary.unavailable > 0 {
		if _, err := fmt.Fprintf(writer, "%d records have unreadable clock values (shown as N/A)\n", summary.unavailable); err != nil {
			return err
		}
	}
	return nil
}

type reportSummary struct {
	netHours      float64
	downtimeHours float64
	unavailable   int
}

// summarizeReport totals the readable hour values of a report.
func summarizeReport(report *schema.Report) reportSummary {
	var s reportSummary
	for i := range report.Rows {
		m := report.Rows[i].Metrics
		if math.IsNaN(m.NetRunningHours) || math.IsNaN(m.TotalDowntimeHours) {
			s.unavailable++
			continue
		}
		s.netHours += m.NetRunningHours
		s.downtimeHours += m.TotalDowntimeHours
	}
	return s
}
