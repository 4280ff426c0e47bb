package core

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
)

// SubmitRecord validates a record, derives its metrics and stores it.
// Derived values sent by the client are replaced. CreatedAt is stamped when unset.
func SubmitRecord(ctx context.Context, calc *Calculator, store contract.RecordStore, rec *schema.ProductionRecord) (*schema.ProductionRecord, error) {
	if store == nil {
		return nil, fmt.Errorf("record store is not initialized")
	}

	clean := NormalizeRecord(rec)
	if verr := ValidateRecord(&clean); verr.HasProblems() {
		return nil, verr
	}

	ApplyDerived(calc, &clean)
	if clean.CreatedAt.IsZero() {
		clean.CreatedAt = time.Now().UTC()
	}

	id, err := store.Save(ctx, &clean)
	if err != nil {
		return nil, fmt.Errorf("failed to save production record: %w", err)
	}
	clean.ID = id
	return &clean, nil
}

// NormalizeRecord returns a copy with surrounding whitespace removed from every text field
// and blank or repeated process names dropped.
func NormalizeRecord(rec *schema.ProductionRecord) schema.ProductionRecord {
	c := *rec
	c.ID = ""
	for _, p := range []*string{
		&c.Date, &c.Shift, &c.ShiftStart, &c.ShiftEnd,
		&c.BreakdownStart1, &c.BreakdownEnd1, &c.BreakdownReason1,
		&c.BreakdownStart2, &c.BreakdownEnd2, &c.BreakdownReason2,
		&c.CustomerName, &c.Brand, &c.MoldType, &c.WallThickness, &c.DateInsert,
		&c.BottomMoldCooling, &c.BottleGeneralStrength,
		&c.ShiftIncharge, &c.Operator, &c.Helpers, &c.ResinGrade, &c.OperatorNotes,
	} {
		*p = strings.TrimSpace(*p)
	}
	c.Section = schema.Section(strings.TrimSpace(string(c.Section)))
	for _, q := range []*schema.Quantity{
		&c.VirginKg, &c.RegrindKg, &c.GoodBottles, &c.RejectedBottles, &c.Preform, &c.LumpsKg,
	} {
		*q = schema.Quantity(strings.TrimSpace(q.String()))
	}

	processes := make([]string, 0, len(rec.Processes))
	for _, p := range rec.Processes {
		p = strings.TrimSpace(p)
		if p == "" || slices.Contains(processes, p) {
			continue
		}
		processes = append(processes, p)
	}
	c.Processes = processes
	return c
}

// ValidateRecord checks required fields, the record date, clock values and process names.
func ValidateRecord(rec *schema.ProductionRecord) *contract.ValidationError {
	verr := &contract.ValidationError{}

	if rec.Section == "" {
		verr.Missing = append(verr.Missing, "section")
	}
	if rec.Date == "" {
		verr.Missing = append(verr.Missing, "date")
	} else if _, err := time.Parse(time.DateOnly, rec.Date); err != nil {
		verr.Invalid = append(verr.Invalid, "date")
	}
	if rec.CustomerName == "" {
		verr.Missing = append(verr.Missing, "customerName")
	}

	for _, f := range []struct {
		name  string
		value string
	}{
		{"shiftStart", rec.ShiftStart},
		{"shiftEnd", rec.ShiftEnd},
		{"breakdownStart1", rec.BreakdownStart1},
		{"breakdownEnd1", rec.BreakdownEnd1},
		{"breakdownStart2", rec.BreakdownStart2},
		{"breakdownEnd2", rec.BreakdownEnd2},
	} {
		if !ValidClock(f.value) {
			verr.Invalid = append(verr.Invalid, f.name)
		}
	}

	for _, p := range rec.Processes {
		if !isKnownProcess(p) {
			verr.Invalid = append(verr.Invalid, "processes")
			break
		}
	}
	return verr
}

// ApplyDerived overwrites the persisted derived strings with freshly computed values.
func ApplyDerived(calc *Calculator, rec *schema.ProductionRecord) schema.MetricsView {
	view := calc.View(calc.Metrics(rec))
	rec.NetRunningHours = view.NetRunningHours
	rec.TotalDowntimeHours = view.TotalDowntimeHours
	rec.WastagePercentage = view.WastagePercentage
	return view
}

func isKnownProcess(name string) bool {
	for _, p := range schema.AllProcesses {
		if string(p) == name {
			return true
		}
	}
	return false
}
