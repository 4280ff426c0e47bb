package core

import (
	"context"
	"fmt"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
)

// BuildReport loads the records matching filter and joins each one with canonical derived values.
func BuildReport(ctx context.Context, calc *Calculator, store contract.RecordStore, filter schema.RecordFilter) (*schema.Report, error) {
	if store == nil {
		return nil, fmt.Errorf("record store is not initialized")
	}
	records, err := store.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load production records: %w", err)
	}

	report := &schema.Report{
		SheetName: schema.ReportSheetName(filter.Section),
		FileName:  schema.ReportFileName(filter.Section),
		Rows:      make([]schema.ReportRow, 0, len(records)),
	}
	for i := range records {
		report.Rows = append(report.Rows, calc.ReportRow(&records[i]))
	}
	return report, nil
}

// ReportRow recomputes a record's metrics and flattens its process selection.
// Stored derived strings are ignored in favor of the recomputed values.
func (c *Calculator) ReportRow(rec *schema.ProductionRecord) schema.ReportRow {
	metrics := c.Metrics(rec)
	view := c.View(metrics)
	return schema.ReportRow{
		Record:             *rec,
		Metrics:            metrics,
		TotalDowntimeHours: view.TotalDowntimeHours,
		NetRunningHours:    view.NetRunningHours,
		WastagePercentage:  view.WastagePercentage,
		WastageAlert:       view.WastageAlert,
		Embossing:          schema.YesNo(rec.HasProcess(schema.ProcessEmbossing)),
		ScreenPrinting:     schema.YesNo(rec.HasProcess(schema.ProcessScreenPrinting)),
		HotStamping:        schema.YesNo(rec.HasProcess(schema.ProcessHotStamping)),
		Labelling:          schema.YesNo(rec.HasProcess(schema.ProcessLabelling)),
	}
}

// Preview computes the metrics view for a partially filled record.
func (c *Calculator) Preview(rec *schema.ProductionRecord) schema.MetricsView {
	return c.View(c.Metrics(rec))
}

// ListCustomers returns the sorted distinct customer names.
func ListCustomers(ctx context.Context, store contract.RecordStore) ([]string, error) {
	if store == nil {
		return nil, fmt.Errorf("record store is not initialized")
	}
	customers, err := store.Distinct(ctx, schema.FieldCustomerName)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	return customers, nil
}

// LatestRecord returns the most recent record together with its recomputed metrics.
func LatestRecord(ctx context.Context, calc *Calculator, store contract.RecordStore) (*schema.ReportRow, error) {
	if store == nil {
		return nil, fmt.Errorf("record store is not initialized")
	}
	rec, err := store.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	row := calc.ReportRow(rec)
	return &row, nil
}
