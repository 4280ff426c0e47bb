package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
)

// CalcResult is an ad-hoc calculation: the inputs used and the metrics derived from them.
type CalcResult struct {
	Section      schema.Section     `json:"section"`
	UnitWeight   float64            `json:"unitWeightKg"`
	KnownSection bool               `json:"knownSection"`
	Metrics      schema.MetricsView `json:"metrics"`
}

// WriteCalc prints a calculation result, dispatching based on the output format configured.
func WriteCalc(result CalcResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"section", "unit_weight_kg", "net_running_hours", "total_downtime_hours", "wastage_percentage", "wastage_alert"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				return csvWriter.Write([]string{
					string(result.Section),
					fmt.Sprintf("%.3f", result.UnitWeight),
					result.Metrics.NetRunningHours,
					result.Metrics.TotalDowntimeHours,
					result.Metrics.WastagePercentage,
					schema.YesNo(result.Metrics.WastageAlert),
				})
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCalcText(w, result, cfg)
		}, "Wrote text")
	}
}

func writeCalcText(w io.Writer, result CalcResult, cfg *contract.Config) error {
	wastage := wastageText(result.Metrics.WastagePercentage, result.Metrics.WastageAlert, cfg.UseColors)
	section := string(result.Section)
	if section == "" {
		section = "-"
	}
	if !result.KnownSection {
		section += fmt.Sprintf(" (unknown, using %.3f kg/pc)", result.UnitWeight)
	}

	lines := [][2]string{
		{"Section", section},
		{"Total Downtime", result.Metrics.TotalDowntimeHours + " Hours"},
		{"Net Running Hours", result.Metrics.NetRunningHours + " Hours"},
		{"Wastage", wastage},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-18s %s\n", l[0]+":", l[1]); err != nil {
			return err
		}
	}
	if !result.Metrics.Available {
		if _, err := fmt.Fprintln(w, "Running hours unavailable: a clock value is not in HH:MM form"); err != nil {
			return err
		}
	}
	return nil
}
