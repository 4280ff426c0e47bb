package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/blowline/shiftlog/internal/contract"
	mcp_internal "github.com/blowline/shiftlog/internal/mcp"
	"github.com/blowline/shiftlog/internal/store"
	"github.com/blowline/shiftlog/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, ctx context.Context, mgr contract.StoreManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	baseCfg := &contract.Config{
		Backend:      schema.MemoryBackend,
		WastageAlert: contract.DefaultWastageAlert,
	}
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(ctx, req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func memoryManager(t *testing.T) (*store.MockStoreManager, *store.MemoryRecordStore) {
	t.Helper()
	mem := store.NewMemoryRecordStore()
	mgr := &store.MockStoreManager{}
	mgr.On("GetRecordStore").Return(mem)
	return mgr, mem
}

func TestComputeShiftMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("overnight shift", func(t *testing.T) {
		res := callTool(t, ctx, nil, "compute_shift_metrics", map[string]any{
			"section":           "ASB 1 (PET)",
			"shift_start":       "20:00",
			"shift_end":         "04:00",
			"breakdown_start_1": "23:30",
			"breakdown_end_1":   "00:30",
			"good_bottles":      1000.0,
			"rejected_bottles":  50.0,
			"preform":           "20",
			"lumps_kg":          5.0,
		})
		require.False(t, res.IsError, resultText(t, res))

		var out struct {
			UnitWeight   float64            `json:"unitWeightKg"`
			KnownSection bool               `json:"knownSection"`
			Metrics      schema.MetricsView `json:"metrics"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.Equal(t, 0.706, out.UnitWeight)
		assert.True(t, out.KnownSection)
		assert.Equal(t, "7.00", out.Metrics.NetRunningHours)
		assert.Equal(t, "1.00", out.Metrics.TotalDowntimeHours)
		assert.Equal(t, "7.16%", out.Metrics.WastagePercentage)
		assert.True(t, out.Metrics.WastageAlert)
	})

	t.Run("unknown section", func(t *testing.T) {
		res := callTool(t, ctx, nil, "compute_shift_metrics", map[string]any{
			"section":      "ASB 9",
			"good_bottles": 100.0,
			"lumps_kg":     1.0,
		})
		require.False(t, res.IsError)
		assert.Contains(t, resultText(t, res), `"knownSection": false`)
		assert.Contains(t, resultText(t, res), `"wastagePercentage": "100.00%"`)
	})

	t.Run("malformed clock", func(t *testing.T) {
		res := callTool(t, ctx, nil, "compute_shift_metrics", map[string]any{
			"shift_start": "8pm",
			"shift_end":   "04:00",
		})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(t, res), "invalid shift_start '8pm'")
	})
}

func TestListCustomers(t *testing.T) {
	ctx := context.Background()
	mgr, mem := memoryManager(t)

	res := callTool(t, ctx, mgr, "list_customers", nil)
	require.False(t, res.IsError)
	assert.JSONEq(t, `[]`, resultText(t, res))

	for _, name := range []string{"Zeta", "Acme"} {
		_, err := mem.Save(ctx, &schema.ProductionRecord{CustomerName: name})
		require.NoError(t, err)
	}
	res = callTool(t, ctx, mgr, "list_customers", nil)
	assert.JSONEq(t, `["Acme","Zeta"]`, resultText(t, res))

	res = callTool(t, ctx, nil, "list_customers", nil)
	assert.True(t, res.IsError)
}

func TestGetLatestRecord(t *testing.T) {
	ctx := context.Background()
	mgr, mem := memoryManager(t)

	res := callTool(t, ctx, mgr, "get_latest_record", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "no production records")

	_, err := mem.Save(ctx, &schema.ProductionRecord{
		Section:      schema.SectionASB2,
		Date:         "2025-03-14",
		CustomerName: "Zeta",
		ShiftStart:   "06:00",
		ShiftEnd:     "14:00",
		CreatedAt:    time.Date(2025, 3, 14, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	res = callTool(t, ctx, mgr, "get_latest_record", nil)
	require.False(t, res.IsError)
	var row schema.ReportRow
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &row))
	assert.Equal(t, "Zeta", row.Record.CustomerName)
	assert.Equal(t, "8.00", row.NetRunningHours)
	assert.Equal(t, "No", row.Embossing)
}

func TestGetProductionReport(t *testing.T) {
	ctx := context.Background()
	mgr, mem := memoryManager(t)
	for i, r := range []schema.ProductionRecord{
		{Section: schema.SectionASB1, Date: "2025-03-14", CustomerName: "Acme", Processes: []string{"Labelling"}},
		{Section: schema.SectionASB2, Date: "2025-03-15", CustomerName: "Zeta"},
		{Section: schema.SectionASB1, Date: "2025-03-16", CustomerName: "Acme"},
	} {
		r.CreatedAt = time.Date(2025, 3, 14+i, 16, 0, 0, 0, time.UTC)
		_, err := mem.Save(ctx, &r)
		require.NoError(t, err)
	}

	res := callTool(t, ctx, mgr, "get_production_report", map[string]any{"section": "ASB 1 (PET)"})
	require.False(t, res.IsError, resultText(t, res))
	var report schema.Report
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.Equal(t, "Production_Report_ASB_1_PET.xlsx", report.FileName)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "Yes", report.Rows[0].Labelling)

	res = callTool(t, ctx, mgr, "get_production_report", map[string]any{"from": "2025-03-15", "limit": 1.0})
	require.False(t, res.IsError)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "2025-03-16", report.Rows[0].Record.Date)

	t.Run("invalid date", func(t *testing.T) {
		res := callTool(t, ctx, mgr, "get_production_report", map[string]any{"to": "16/03/2025"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "invalid to date")
	})

	t.Run("invalid limit", func(t *testing.T) {
		res := callTool(t, ctx, mgr, "get_production_report", map[string]any{"limit": -1.0})
		assert.True(t, res.IsError)
	})
}
