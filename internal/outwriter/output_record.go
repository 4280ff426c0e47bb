package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
)

// printItem is one labelled value of the print view.
type printItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// printSection is one numbered block of the print view.
type printSection struct {
	Title string      `json:"title"`
	Items []printItem `json:"items"`
}

// WriteRecord prints the shift report of a single record.
func WriteRecord(row *schema.ReportRow, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, row)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRecordText(w, row, cfg)
		}, "Wrote text")
	}
}

// buildPrintSections lays the record out the way the printed shift report reads.
func buildPrintSections(row *schema.ReportRow) []printSection {
	rec := &row.Record
	dash := contract.DisplayOrDash
	zero := contract.DisplayOrZero

	processes := "None"
	if len(rec.Processes) > 0 {
		processes = strings.Join(rec.Processes, ", ")
	}
	notes := rec.OperatorNotes
	if strings.TrimSpace(notes) == "" {
		notes = "No notes."
	}

	return []printSection{
		{"1. Shift & Runtime", []printItem{
			{"Date", rec.Date},
			{"Shift", rec.Shift},
			{"Start", rec.ShiftStart},
			{"End", rec.ShiftEnd},
			{"Net Running Hours", row.NetRunningHours + " Hours"},
			{"Incharge", dash(rec.ShiftIncharge)},
			{"Operator", dash(rec.Operator)},
			{"Helpers", dash(rec.Helpers)},
		}},
		{"2. Downtime", []printItem{
			{"Stop 1", dash(rec.BreakdownStart1)},
			{"Start 1", dash(rec.BreakdownEnd1)},
			{"Reason 1", dash(rec.BreakdownReason1)},
			{"Stop 2", dash(rec.BreakdownStart2)},
			{"Start 2", dash(rec.BreakdownEnd2)},
			{"Reason 2", dash(rec.BreakdownReason2)},
			{"Total Downtime", row.TotalDowntimeHours + " Hours"},
		}},
		{"3. Job Details", []printItem{
			{"Customer", dash(rec.CustomerName)},
			{"Brand", dash(rec.Brand)},
			{"Mold Type", dash(rec.MoldType)},
			{"Wall Thickness", dash(rec.WallThickness)},
			{"Date Insert", dash(rec.DateInsert)},
			{"Bottom Mold/Cooling", dash(rec.BottomMoldCooling)},
			{"Bottle Strength", dash(rec.BottleGeneralStrength)},
		}},
		{"4. Material & Output", []printItem{
			{"Resin Grade", dash(rec.ResinGrade)},
			{"Virgin (KG)", zero(rec.VirginKg.String())},
			{"Regrind (KG)", zero(rec.RegrindKg.String())},
			{"Good Bottles", zero(rec.GoodBottles.String())},
			{"Rejected Bottles", zero(rec.RejectedBottles.String())},
			{"Preform", zero(rec.Preform.String())},
			{"Lump (KG)", zero(rec.LumpsKg.String())},
			{"Wastage (%)", row.WastagePercentage},
		}},
		{"5. Post-Production & Notes", []printItem{
			{"Processes", processes},
			{"Operator Notes", notes},
		}},
	}
}

// writeRecordText renders the print view as labelled plain text.
func writeRecordText(w io.Writer, row *schema.ReportRow, cfg *contract.Config) error {
	heading := headingFunc(cfg.UseColors)

	if _, err := fmt.Fprintln(w, heading("Production Report - "+string(row.Record.Section))); err != nil {
		return err
	}
	for _, section := range buildPrintSections(row) {
		if _, err := fmt.Fprintf(w, "\n%s\n", heading(section.Title)); err != nil {
			return err
		}
		for _, item := range section.Items {
			value := item.Value
			if item.Label == "Wastage (%)" {
				value = wastageText(value, row.WastageAlert, cfg.UseColors)
			}
			if _, err := fmt.Fprintf(w, "  %-20s %s\n", item.Label+":", value); err != nil {
				return err
			}
		}
	}
	return nil
}
