package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/store"
	"github.com/blowline/shiftlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, s contract.RecordStore) {
	t.Helper()
	calc := DefaultCalculator()
	base := time.Date(2025, 3, 14, 16, 0, 0, 0, time.UTC)
	for i, r := range []schema.ProductionRecord{
		{Section: schema.SectionASB1, Date: "2025-03-14", CustomerName: "Acme", ShiftStart: "08:00", ShiftEnd: "16:00",
			BreakdownStart1: "10:00", BreakdownEnd1: "10:30",
			GoodBottles: "1000", RejectedBottles: "50", Preform: "20", LumpsKg: "5", Processes: []string{"Embossing"}},
		{Section: schema.SectionASB2, Date: "2025-03-14", CustomerName: "Zeta", ShiftStart: "22:00", ShiftEnd: "06:00",
			GoodBottles: "500", Processes: []string{"Screen Printing", "Hot-Stamping"}},
		{Section: schema.SectionASB1, Date: "2025-03-15", CustomerName: "Acme", ShiftStart: "06:00", ShiftEnd: "14:00"},
	} {
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := SubmitRecord(context.Background(), calc, s, &r)
		require.NoError(t, err)
	}
}

func TestBuildReport_All(t *testing.T) {
	s := store.NewMemoryRecordStore()
	seedStore(t, s)

	report, err := BuildReport(context.Background(), DefaultCalculator(), s, schema.RecordFilter{})
	require.NoError(t, err)

	assert.Equal(t, "All Production", report.SheetName)
	assert.Equal(t, "Production_Report_All.xlsx", report.FileName)
	require.Len(t, report.Rows, 3)

	first := report.Rows[0]
	assert.Equal(t, "7.50", first.NetRunningHours)
	assert.Equal(t, "0.50", first.TotalDowntimeHours)
	assert.Equal(t, "7.16%", first.WastagePercentage)
	assert.True(t, first.WastageAlert)
	assert.Equal(t, "Yes", first.Embossing)
	assert.Equal(t, "No", first.ScreenPrinting)
	assert.Equal(t, "No", first.HotStamping)
	assert.Equal(t, "No", first.Labelling)

	second := report.Rows[1]
	assert.Equal(t, "8.00", second.NetRunningHours)
	assert.Equal(t, "0.00%", second.WastagePercentage)
	assert.False(t, second.WastageAlert)
	assert.Equal(t, "Yes", second.ScreenPrinting)
	assert.Equal(t, "Yes", second.HotStamping)
}

func TestBuildReport_Section(t *testing.T) {
	s := store.NewMemoryRecordStore()
	seedStore(t, s)

	report, err := BuildReport(context.Background(), DefaultCalculator(), s, schema.RecordFilter{Section: schema.SectionASB1})
	require.NoError(t, err)
	assert.Equal(t, "ASB 1 (PET)", report.SheetName)
	assert.Equal(t, "Production_Report_ASB_1_PET.xlsx", report.FileName)
	assert.Len(t, report.Rows, 2)
}

func TestBuildReport_RecomputesStoredValues(t *testing.T) {
	s := &store.MockRecordStore{}
	s.On("FindAll", mock.Anything, schema.RecordFilter{}).Return([]schema.ProductionRecord{
		{
			Section:           schema.SectionASB2,
			ShiftStart:        "08:00",
			ShiftEnd:          "12:00",
			GoodBottles:       "90",
			RejectedBottles:   "10",
			NetRunningHours:   "stale",
			WastagePercentage: "stale",
		},
	}, nil)

	report, err := BuildReport(context.Background(), DefaultCalculator(), s, schema.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "4.00", report.Rows[0].NetRunningHours)
	assert.Equal(t, "10.00%", report.Rows[0].WastagePercentage)
	assert.Equal(t, "stale", report.Rows[0].Record.NetRunningHours)
	s.AssertExpectations(t)
}

func TestBuildReport_StoreError(t *testing.T) {
	s := &store.MockRecordStore{}
	s.On("FindAll", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := BuildReport(context.Background(), DefaultCalculator(), s, schema.RecordFilter{})
	assert.ErrorContains(t, err, "connection reset")
}

func TestBuildReport_SQLiteEndToEnd(t *testing.T) {
	s, err := store.NewSQLRecordStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "r.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	seedStore(t, s)

	report, err := BuildReport(context.Background(), DefaultCalculator(), s, schema.RecordFilter{Customer: "Acme", Limit: 1})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "2025-03-15", report.Rows[0].Record.Date)
}

func TestPreviewMatchesReport(t *testing.T) {
	calc := DefaultCalculator()
	rec := &schema.ProductionRecord{
		Section: schema.SectionASB1, ShiftStart: "20:00", ShiftEnd: "04:00",
		BreakdownStart1: "23:30", BreakdownEnd1: "00:30",
		GoodBottles: "1000", RejectedBottles: "50", Preform: "20", LumpsKg: "5",
	}
	preview := calc.Preview(rec)
	row := calc.ReportRow(rec)

	assert.Equal(t, preview.NetRunningHours, row.NetRunningHours)
	assert.Equal(t, preview.TotalDowntimeHours, row.TotalDowntimeHours)
	assert.Equal(t, preview.WastagePercentage, row.WastagePercentage)
	assert.Equal(t, "7.00", preview.NetRunningHours)
	assert.Equal(t, "1.00", preview.TotalDowntimeHours)
}

func TestListCustomers(t *testing.T) {
	s := store.NewMemoryRecordStore()
	seedStore(t, s)

	customers, err := ListCustomers(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Zeta"}, customers)
}

func TestLatestRecord(t *testing.T) {
	s := store.NewMemoryRecordStore()

	_, err := LatestRecord(context.Background(), DefaultCalculator(), s)
	assert.ErrorIs(t, err, contract.ErrRecordNotFound)

	seedStore(t, s)
	row, err := LatestRecord(context.Background(), DefaultCalculator(), s)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", row.Record.Date)
	assert.Equal(t, "8.00", row.NetRunningHours)
}

func TestImportRecords(t *testing.T) {
	s := store.NewMemoryRecordStore()
	records := []schema.ProductionRecord{
		{Section: schema.SectionASB1, Date: "2025-03-14", CustomerName: "Acme"},
		{Section: schema.SectionASB1, Date: "", CustomerName: "Acme"},
		{Section: schema.SectionASB2, Date: "2025-03-15", CustomerName: "Zeta", ShiftStart: "nope"},
		{Section: schema.SectionASB2, Date: "2025-03-16", CustomerName: "Zeta"},
	}

	summary, err := ImportRecords(context.Background(), DefaultCalculator(), s, records)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Imported: 2, Rejected: 2}, summary)

	status, err := s.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRecords)
}

func TestImportRecords_StopsOnStoreError(t *testing.T) {
	s := &store.MockRecordStore{}
	s.On("Save", mock.Anything, mock.Anything).Return("", errors.New("read-only")).Once()

	records := []schema.ProductionRecord{
		{Section: schema.SectionASB1, Date: "2025-03-14", CustomerName: "Acme"},
		{Section: schema.SectionASB1, Date: "2025-03-15", CustomerName: "Acme"},
	}
	summary, err := ImportRecords(context.Background(), DefaultCalculator(), s, records)
	assert.ErrorContains(t, err, "read-only")
	assert.Equal(t, 0, summary.Imported)
	s.AssertNumberOfCalls(t, "Save", 1)
}

func TestNewCalculatorFromConfig(t *testing.T) {
	cfg := &contract.Config{
		WastageAlert:  5,
		UnknownWeight: 0.5,
		CustomWeights: map[schema.Section]float64{schema.SectionASB1: 0.8, "ASB 3": 1.2},
	}
	calc := NewCalculatorFromConfig(cfg)

	assert.Equal(t, 5.0, calc.WastageAlert)
	w, known := calc.Weights.Lookup(schema.SectionASB1)
	assert.True(t, known)
	assert.Equal(t, 0.8, w)
	w, known = calc.Weights.Lookup("ASB 3")
	assert.True(t, known)
	assert.Equal(t, 1.2, w)
	w, known = calc.Weights.Lookup("ASB 9")
	assert.False(t, known)
	assert.Equal(t, 0.5, w)
	w, _ = calc.Weights.Lookup(schema.SectionASB2)
	assert.Equal(t, 0.820, w)
}
