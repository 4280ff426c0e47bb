package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testRows() []schema.ReportRow {
	return []schema.ReportRow{
		{
			Record: schema.ProductionRecord{
				ID:              "1",
				Section:         schema.SectionASB1,
				Date:            "2025-03-14",
				Shift:           "Day",
				ShiftStart:      "08:00",
				ShiftEnd:        "16:00",
				BreakdownStart1: "10:00",
				BreakdownEnd1:   "10:30",
				CustomerName:    "Acme Beverages",
				Processes:       []string{"Embossing", "Labelling"},
				GoodBottles:     "1000",
				RejectedBottles: "50",
				Preform:         "20",
				LumpsKg:         "5",
				OperatorNotes:   "Mold 3 sticking",
				CreatedAt:       time.Date(2025, 3, 14, 16, 5, 0, 0, time.UTC),
			},
			Metrics:            schema.DerivedMetrics{NetRunningHours: 7.5, TotalDowntimeHours: 0.5, WastagePercentage: 15.134},
			TotalDowntimeHours: "0.50",
			NetRunningHours:    "7.50",
			WastagePercentage:  "15.13%",
			WastageAlert:       true,
			Embossing:          "Yes",
			ScreenPrinting:     "No",
			HotStamping:        "No",
			Labelling:          "Yes",
		},
		{
			Record: schema.ProductionRecord{
				ID:           "2",
				Section:      schema.SectionASB2,
				Date:         "2025-03-15",
				ShiftStart:   "bad",
				ShiftEnd:     "06:00",
				CustomerName: "Zeta",
			},
			Metrics:            schema.DerivedMetrics{NetRunningHours: math.NaN(), TotalDowntimeHours: 0},
			TotalDowntimeHours: "0.00",
			NetRunningHours:    "N/A",
			WastagePercentage:  "0.00%",
			Embossing:          "No",
			ScreenPrinting:     "No",
			HotStamping:        "No",
			Labelling:          "No",
		},
	}
}

func testReport() *schema.Report {
	return &schema.Report{
		SheetName: schema.AllProductionSheet,
		FileName:  schema.ReportFileAll,
		Rows:      testRows(),
	}
}

func TestWriteReportTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := &contract.Config{Output: schema.TextOut, UseColors: false, Width: 160}

	require.NoError(t, writeReportTable(&buf, testReport(), cfg))
	out := buf.String()

	assert.Contains(t, out, "All Production")
	assert.Contains(t, out, "Acme Beverages")
	assert.Contains(t, out, "15.13%")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Showing 2 records (net running: 7.50 hrs, downtime: 0.50 hrs, above wastage alert: 1)")
	assert.Contains(t, out, "1 records have unreadable clock values")
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReportCSV(&buf, testReport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, schema.ReportHeaders(), records[0])
	assert.Len(t, records[1], len(schema.ReportColumns))
	assert.Equal(t, "ASB 1 (PET)", records[1][0])
	assert.Equal(t, "Yes", records[1][20])    // Embossing
	assert.Equal(t, "15.13%", records[1][34]) // Wastage (%)
	assert.Equal(t, "N/A", records[2][12])    // Net Running Hours
}

func TestWriteReportXLSX(t *testing.T) {
	var buf bytes.Buffer
	report := testReport()
	require.NoError(t, WriteReportXLSX(&buf, report))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"All Production"}, f.GetSheetList())

	rows, err := f.GetRows("All Production")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Section", rows[0][0])
	assert.Equal(t, "Operator Notes", rows[0][35])
	assert.Equal(t, "Acme Beverages", rows[1][13])
	assert.Equal(t, "Mold 3 sticking", rows[1][35])

	width, err := f.GetColWidth("All Production", "AJ")
	require.NoError(t, err)
	assert.InDelta(t, 30, width, 0.01)
}

func TestWriteReportXLSX_SectionSheet(t *testing.T) {
	var buf bytes.Buffer
	report := &schema.Report{
		SheetName: schema.ReportSheetName(schema.SectionASB2),
		FileName:  schema.ReportFileName(schema.SectionASB2),
		Rows:      testRows()[1:],
	}
	require.NoError(t, WriteReportXLSX(&buf, report))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"ASB 2 (PC)"}, f.GetSheetList())
}

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ASB 1 (PET)", "ASB 1 (PET)"},
		{"", "All Production"},
		{"Line [A]/B", "Line (A)_B"},
		{"'quoted'", "quoted"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeSheetName(tt.in))
	}
}

func TestWriteRecordText(t *testing.T) {
	var buf bytes.Buffer
	rows := testRows()
	require.NoError(t, writeRecordText(&buf, &rows[0], &contract.Config{}))
	out := buf.String()

	assert.Contains(t, out, "Production Report - ASB 1 (PET)")
	for _, title := range []string{"1. Shift & Runtime", "2. Downtime", "3. Job Details", "4. Material & Output", "5. Post-Production & Notes"} {
		assert.Contains(t, out, title)
	}
	assert.Contains(t, out, "7.50 Hours")
	assert.Contains(t, out, "Embossing, Labelling")
	assert.Contains(t, out, "Mold 3 sticking")
}

func TestBuildPrintSections_Defaults(t *testing.T) {
	row := testRows()[1]
	sections := buildPrintSections(&row)
	require.Len(t, sections, 5)

	values := map[string]string{}
	for _, s := range sections {
		for _, item := range s.Items {
			values[item.Label] = item.Value
		}
	}
	assert.Equal(t, "-", values["Brand"])
	assert.Equal(t, "-", values["Stop 1"])
	assert.Equal(t, "0", values["Good Bottles"])
	assert.Equal(t, "0", values["Lump (KG)"])
	assert.Equal(t, "None", values["Processes"])
	assert.Equal(t, "No notes.", values["Operator Notes"])
	assert.Equal(t, "N/A Hours", values["Net Running Hours"])
}

func TestWriteCalcText(t *testing.T) {
	var buf bytes.Buffer
	result := CalcResult{
		Section:      "ASB 3",
		UnitWeight:   0,
		KnownSection: false,
		Metrics: schema.MetricsView{
			NetRunningHours:    "N/A",
			TotalDowntimeHours: "0.00",
			WastagePercentage:  "100.00%",
			WastageAlert:       true,
		},
	}
	require.NoError(t, writeCalcText(&buf, result, &contract.Config{}))
	out := buf.String()
	assert.Contains(t, out, "ASB 3 (unknown, using 0.000 kg/pc)")
	assert.Contains(t, out, "100.00%")
	assert.Contains(t, out, "Running hours unavailable")
}

func TestCalcResultJSON(t *testing.T) {
	var buf bytes.Buffer
	result := CalcResult{
		Section:      schema.SectionASB1,
		UnitWeight:   0.706,
		KnownSection: true,
		Metrics:      schema.MetricsView{WastagePercentage: "15.13%", Available: true},
	}
	require.NoError(t, writeJSON(&buf, result))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "ASB 1 (PET)", decoded["section"])
	assert.Equal(t, true, decoded["knownSection"])
	metrics := decoded["metrics"].(map[string]any)
	assert.Equal(t, "15.13%", metrics["wastagePercentage"])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "abc", truncate("abc", 2))
}

func TestGetMaxCustomerWidth(t *testing.T) {
	assert.Equal(t, 12, getMaxCustomerWidth(&contract.Config{Width: 80}))
	assert.Equal(t, 30, getMaxCustomerWidth(&contract.Config{Width: 130}))
	assert.Equal(t, 40, getMaxCustomerWidth(&contract.Config{Width: 300}))
}

func TestPlainColors(t *testing.T) {
	assert.Equal(t, "z", headingFunc(false)("z"))
	assert.Equal(t, "4.00%", wastageText("4.00%", true, false))
	assert.Equal(t, "1.00%", wastageText("1.00%", false, false))
}
