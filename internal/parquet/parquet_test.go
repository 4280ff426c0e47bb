package parquet

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blowline/shiftlog/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []schema.ReportRow {
	created := time.Date(2025, 3, 14, 16, 5, 0, 0, time.UTC)
	return []schema.ReportRow{
		{
			Record: schema.ProductionRecord{
				ID:              "1",
				Section:         schema.SectionASB1,
				Date:            "2025-03-14",
				ShiftStart:      "08:00",
				ShiftEnd:        "16:00",
				CustomerName:    "Acme",
				Processes:       []string{"Embossing", "Labelling"},
				GoodBottles:     "1000",
				RejectedBottles: "50",
				Preform:         "20",
				LumpsKg:         "5",
				VirginKg:        "120.5",
				CreatedAt:       created,
			},
			Metrics: schema.DerivedMetrics{
				NetRunningHours:    7.5,
				TotalDowntimeHours: 0.5,
				WastagePercentage:  15.134,
			},
			WastageAlert: true,
		},
		{
			Record: schema.ProductionRecord{
				ID:           "2",
				Section:      schema.SectionASB2,
				Date:         "2025-03-15",
				ShiftStart:   "oops",
				ShiftEnd:     "16:00",
				CustomerName: "Zeta",
				CreatedAt:    created.Add(time.Hour),
			},
			Metrics: schema.DerivedMetrics{
				NetRunningHours:    math.NaN(),
				TotalDowntimeHours: 0,
			},
		},
	}
}

func TestReportRecordStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(ReportRecord))
	require.NotNil(t, s)

	expectedColumns := []string{
		"record_id",
		"section",
		"record_date",
		"customer_name",
		"processes",
		"good_bottles",
		"lumps_kg",
		"net_running_hours",
		"total_downtime_hours",
		"wastage_percentage",
		"wastage_alert",
		"created_at",
	}
	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestFromReportRows(t *testing.T) {
	records := FromReportRows(sampleRows())
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "1", first.RecordID)
	assert.Equal(t, "ASB 1 (PET)", first.Section)
	assert.Equal(t, "Embossing|Labelling", first.Processes)
	assert.Equal(t, int64(1000), first.GoodBottles)
	assert.InDelta(t, 120.5, first.VirginKg, 1e-9)
	require.NotNil(t, first.NetRunningHours)
	assert.InDelta(t, 7.5, *first.NetRunningHours, 1e-9)
	assert.True(t, first.WastageAlert)

	second := records[1]
	assert.Nil(t, second.NetRunningHours, "malformed clock yields a null hour value")
	require.NotNil(t, second.TotalDowntimeHours)
	assert.Equal(t, int64(0), second.GoodBottles)
}

func TestWriteReportParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "report.parquet")
	rows := sampleRows()

	require.NoError(t, WriteReportParquet(rows, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[ReportRecord](file)
	defer reader.Close()

	readData := make([]ReportRecord, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	require.Equal(t, len(rows), n, "Should read all records")

	assert.Equal(t, "Acme", readData[0].CustomerName)
	assert.InDelta(t, 15.134, readData[0].WastagePercentage, 0.001)
	assert.WithinDuration(t, rows[0].Record.CreatedAt, readData[0].CreatedAt, time.Nanosecond)
	assert.Nil(t, readData[1].NetRunningHours)
	assert.Equal(t, "Zeta", readData[1].CustomerName)
}

func TestWriteReportRecords_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportRecords(&buf, nil))
	assert.Greater(t, buf.Len(), 0, "An empty export still has a footer")

	reader := parquet.NewGenericReader[ReportRecord](bytes.NewReader(buf.Bytes()))
	defer reader.Close()
	assert.Equal(t, int64(0), reader.NumRows())
}
