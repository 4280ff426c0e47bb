package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blowline/shiftlog/core"
	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/outwriter"
	"github.com/blowline/shiftlog/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	calc *core.Calculator
	mgr  contract.StoreManager
}

func (h *toolHandler) handleComputeShiftMetrics(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec := schema.ProductionRecord{
		Section:         schema.Section(strings.TrimSpace(request.GetString("section", ""))),
		ShiftStart:      request.GetString("shift_start", ""),
		ShiftEnd:        request.GetString("shift_end", ""),
		BreakdownStart1: request.GetString("breakdown_start_1", ""),
		BreakdownEnd1:   request.GetString("breakdown_end_1", ""),
		BreakdownStart2: request.GetString("breakdown_start_2", ""),
		BreakdownEnd2:   request.GetString("breakdown_end_2", ""),
		GoodBottles:     quantityArg(request, "good_bottles"),
		RejectedBottles: quantityArg(request, "rejected_bottles"),
		Preform:         quantityArg(request, "preform"),
		LumpsKg:         quantityArg(request, "lumps_kg"),
	}

	for _, v := range []struct{ name, value string }{
		{"shift_start", rec.ShiftStart},
		{"shift_end", rec.ShiftEnd},
		{"breakdown_start_1", rec.BreakdownStart1},
		{"breakdown_end_1", rec.BreakdownEnd1},
		{"breakdown_start_2", rec.BreakdownStart2},
		{"breakdown_end_2", rec.BreakdownEnd2},
	} {
		if !core.ValidClock(v.value) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid %s '%s'. expected HH:MM", v.name, v.value)), nil
		}
	}

	weight, known := h.calc.Weights.Lookup(rec.Section)
	result := outwriter.CalcResult{
		Section:      rec.Section,
		UnitWeight:   weight,
		KnownSection: known,
		Metrics:      h.calc.Preview(&rec),
	}
	return jsonResult(result)
}

func (h *toolHandler) handleListCustomers(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	customers, err := core.ListCustomers(ctx, h.recordStore())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("customer lookup failed: %v", err)), nil
	}
	if customers == nil {
		customers = []string{}
	}
	return jsonResult(customers)
}

func (h *toolHandler) handleGetLatestRecord(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	row, err := core.LatestRecord(ctx, h.calc, h.recordStore())
	if errors.Is(err, contract.ErrRecordNotFound) {
		return mcp.NewToolResultError("no production records have been submitted yet"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("record lookup failed: %v", err)), nil
	}
	return jsonResult(row)
}

func (h *toolHandler) handleGetProductionReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := schema.RecordFilter{
		Section:  schema.Section(strings.TrimSpace(request.GetString("section", ""))),
		Customer: strings.TrimSpace(request.GetString("customer", "")),
		DateFrom: strings.TrimSpace(request.GetString("from", "")),
		DateTo:   strings.TrimSpace(request.GetString("to", "")),
		Limit:    request.GetInt("limit", 0),
	}
	for _, d := range []struct{ name, value string }{{"from", filter.DateFrom}, {"to", filter.DateTo}} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, d.value); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid %s date '%s'. expected YYYY-MM-DD", d.name, d.value)), nil
		}
	}
	if filter.Limit < 0 || filter.Limit > contract.MaxResultLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 0 and %d", contract.MaxResultLimit)), nil
	}

	report, err := core.BuildReport(ctx, h.calc, h.recordStore(), filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) recordStore() contract.RecordStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetRecordStore()
}

// quantityArg keeps numeric arguments in the form the operator would have typed them.
func quantityArg(request mcp.CallToolRequest, key string) schema.Quantity {
	switch v := request.GetArguments()[key].(type) {
	case float64:
		return schema.Quantity(strconv.FormatFloat(v, 'f', -1, 64))
	case string:
		return schema.Quantity(strings.TrimSpace(v))
	default:
		return ""
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
