// Package parquet exports production report rows to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/blowline/shiftlog/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRecord is one production record with its derived metrics, flattened for columnar storage.
type ReportRecord struct {
	// RecordID is the store identifier (SQL row id or MongoDB ObjectID hex)
	RecordID string `parquet:"record_id,snappy"`

	Section    string `parquet:"section,snappy"`
	RecordDate string `parquet:"record_date,snappy"`
	Shift      string `parquet:"shift,snappy"`
	ShiftStart string `parquet:"shift_start,snappy"`
	ShiftEnd   string `parquet:"shift_end,snappy"`

	BreakdownStart1  string `parquet:"breakdown_start_1,snappy"`
	BreakdownEnd1    string `parquet:"breakdown_end_1,snappy"`
	BreakdownReason1 string `parquet:"breakdown_reason_1,snappy"`
	BreakdownStart2  string `parquet:"breakdown_start_2,snappy"`
	BreakdownEnd2    string `parquet:"breakdown_end_2,snappy"`
	BreakdownReason2 string `parquet:"breakdown_reason_2,snappy"`

	CustomerName          string `parquet:"customer_name,snappy"`
	Brand                 string `parquet:"brand,snappy"`
	MoldType              string `parquet:"mold_type,snappy"`
	WallThickness         string `parquet:"wall_thickness,snappy"`
	DateInsert            string `parquet:"date_insert,snappy"`
	BottomMoldCooling     string `parquet:"bottom_mold_cooling,snappy"`
	BottleGeneralStrength string `parquet:"bottle_general_strength,snappy"`

	// Processes holds the selected post-production steps joined with "|"
	Processes     string `parquet:"processes,snappy"`
	ShiftIncharge string `parquet:"shift_incharge,snappy"`
	Operator      string `parquet:"operator,snappy"`
	Helpers       string `parquet:"helpers,snappy"`
	ResinGrade    string `parquet:"resin_grade,snappy"`

	VirginKg        float64 `parquet:"virgin_kg,snappy"`
	RegrindKg       float64 `parquet:"regrind_kg,snappy"`
	GoodBottles     int64   `parquet:"good_bottles,snappy"`
	RejectedBottles int64   `parquet:"rejected_bottles,snappy"`
	Preform         int64   `parquet:"preform,snappy"`
	LumpsKg         float64 `parquet:"lumps_kg,snappy"`

	OperatorNotes string `parquet:"operator_notes,snappy"`

	// Hour values are null when a clock field could not be read
	NetRunningHours    *float64 `parquet:"net_running_hours,optional,snappy"`
	TotalDowntimeHours *float64 `parquet:"total_downtime_hours,optional,snappy"`
	WastagePercentage  float64  `parquet:"wastage_percentage,snappy"`
	WastageAlert       bool     `parquet:"wastage_alert,snappy"`

	// CreatedAt is the submission time (stored as TIMESTAMP with nanosecond precision)
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// FromReportRows converts report rows into Parquet records.
func FromReportRows(rows []schema.ReportRow) []ReportRecord {
	out := make([]ReportRecord, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		rec := &row.Record
		out = append(out, ReportRecord{
			RecordID:              rec.ID,
			Section:               string(rec.Section),
			RecordDate:            rec.Date,
			Shift:                 rec.Shift,
			ShiftStart:            rec.ShiftStart,
			ShiftEnd:              rec.ShiftEnd,
			BreakdownStart1:       rec.BreakdownStart1,
			BreakdownEnd1:         rec.BreakdownEnd1,
			BreakdownReason1:      rec.BreakdownReason1,
			BreakdownStart2:       rec.BreakdownStart2,
			BreakdownEnd2:         rec.BreakdownEnd2,
			BreakdownReason2:      rec.BreakdownReason2,
			CustomerName:          rec.CustomerName,
			Brand:                 rec.Brand,
			MoldType:              rec.MoldType,
			WallThickness:         rec.WallThickness,
			DateInsert:            rec.DateInsert,
			BottomMoldCooling:     rec.BottomMoldCooling,
			BottleGeneralStrength: rec.BottleGeneralStrength,
			Processes:             strings.Join(rec.Processes, "|"),
			ShiftIncharge:         rec.ShiftIncharge,
			Operator:              rec.Operator,
			Helpers:               rec.Helpers,
			ResinGrade:            rec.ResinGrade,
			VirginKg:              rec.VirginKg.Kg(),
			RegrindKg:             rec.RegrindKg.Kg(),
			GoodBottles:           int64(rec.GoodBottles.Pieces()),
			RejectedBottles:       int64(rec.RejectedBottles.Pieces()),
			Preform:               int64(rec.Preform.Pieces()),
			LumpsKg:               rec.LumpsKg.Kg(),
			OperatorNotes:         rec.OperatorNotes,
			NetRunningHours:       finiteOrNil(row.Metrics.NetRunningHours),
			TotalDowntimeHours:    finiteOrNil(row.Metrics.TotalDowntimeHours),
			WastagePercentage:     row.Metrics.WastagePercentage,
			WastageAlert:          row.WastageAlert,
			CreatedAt:             rec.CreatedAt,
		})
	}
	return out
}

// WriteReportRecords writes Parquet records to w.
func WriteReportRecords(w io.Writer, data []ReportRecord) error {
	// The schema is derived from the ReportRecord struct tags
	writer := parquet.NewGenericWriter[ReportRecord](w)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteReportParquet writes report rows to a Parquet file at outputPath.
func WriteReportParquet(rows []schema.ReportRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return WriteReportRecords(file, FromReportRows(rows))
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
