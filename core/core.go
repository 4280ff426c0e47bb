// Package core has the shift metrics calculator and the services built on it.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/outwriter"
	"github.com/blowline/shiftlog/internal/store"
	"github.com/blowline/shiftlog/schema"
)

// ExecutorFunc defines the function signature for executing store-backed commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// NewCalculatorFromConfig builds the calculator for the configured weights and alert level.
func NewCalculatorFromConfig(cfg *contract.Config) *Calculator {
	return NewCalculator(NewWeightTable(cfg.CustomWeights, cfg.UnknownWeight), cfg.WastageAlert)
}

// ExecuteReport builds the filtered production report and writes it in the configured format.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	calc := NewCalculatorFromConfig(cfg)
	report, err := BuildReport(ctx, calc, mgr.GetRecordStore(), cfg.Filter)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReport(report, cfg)
}

// ExecuteCustomers prints the customer directory.
func ExecuteCustomers(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	customers, err := ListCustomers(ctx, mgr.GetRecordStore())
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCustomers(customers, cfg)
}

// ExecuteLatest prints the print view of the most recent record.
func ExecuteLatest(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	row, err := LatestRecord(ctx, NewCalculatorFromConfig(cfg), mgr.GetRecordStore())
	if errors.Is(err, contract.ErrRecordNotFound) {
		return errors.New("no production records have been submitted yet")
	}
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRecord(row, cfg)
}

// ExecuteCalc derives the metrics of a record without storing it.
func ExecuteCalc(_ context.Context, cfg *contract.Config, rec *schema.ProductionRecord) error {
	calc := NewCalculatorFromConfig(cfg)
	weight, known := calc.Weights.Lookup(rec.Section)
	result := outwriter.CalcResult{
		Section:      rec.Section,
		UnitWeight:   weight,
		KnownSection: known,
		Metrics:      calc.Preview(rec),
	}
	return outwriter.NewOutWriter().WriteCalc(result, cfg)
}

// ImportSummary counts the outcome of a bulk import.
type ImportSummary struct {
	Imported int
	Rejected int
}

// ExecuteImport replays an exported JSON array of records through SubmitRecord.
// Invalid records are reported and skipped; store failures stop the import.
func ExecuteImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	records, err := store.DecodeRecordExport(data)
	if err != nil {
		return err
	}

	summary, err := ImportRecords(ctx, NewCalculatorFromConfig(cfg), mgr.GetRecordStore(), records)
	contract.LogInfo("📥 Imported %d records (%d rejected) into %s", summary.Imported, summary.Rejected, cfg.Backend)
	return err
}

// ImportRecords submits each record in order.
func ImportRecords(ctx context.Context, calc *Calculator, st contract.RecordStore, records []schema.ProductionRecord) (ImportSummary, error) {
	var summary ImportSummary
	for i := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		_, err := SubmitRecord(ctx, calc, st, &records[i])
		var verr *contract.ValidationError
		if errors.As(err, &verr) {
			contract.LogWarn(fmt.Sprintf("Skipping record %d", i+1), verr)
			summary.Rejected++
			continue
		}
		if err != nil {
			return summary, err
		}
		summary.Imported++
	}
	return summary, nil
}
