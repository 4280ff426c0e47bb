// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/blowline/shiftlog/core"
	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the shift log MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Shift Log Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		calc: core.NewCalculatorFromConfig(baseCfg),
		mgr:  mgr,
	}

	sections := make([]string, 0, len(schema.AllSections))
	for _, sec := range schema.AllSections {
		sections = append(sections, string(sec))
	}

	// --- 1. Tool: compute_shift_metrics ---
	s.AddTool(mcp.NewTool("compute_shift_metrics",
		mcp.WithDescription("Compute net running hours, downtime hours and wastage percentage for one shift without saving it."),
		mcp.WithString("section", mcp.Description("Production line, e.g. 'ASB 1 (PET)'. Unknown lines use the fallback unit weight.")),
		mcp.WithString("shift_start", mcp.Description("Shift start as HH:MM.")),
		mcp.WithString("shift_end", mcp.Description("Shift end as HH:MM. An end before the start runs past midnight.")),
		mcp.WithString("breakdown_start_1", mcp.Description("First stop start as HH:MM.")),
		mcp.WithString("breakdown_end_1", mcp.Description("First stop end as HH:MM.")),
		mcp.WithString("breakdown_start_2", mcp.Description("Second stop start as HH:MM.")),
		mcp.WithString("breakdown_end_2", mcp.Description("Second stop end as HH:MM.")),
		mcp.WithNumber("good_bottles", mcp.Description("Good pieces produced.")),
		mcp.WithNumber("rejected_bottles", mcp.Description("Rejected pieces.")),
		mcp.WithNumber("preform", mcp.Description("Scrapped preforms.")),
		mcp.WithNumber("lumps_kg", mcp.Description("Scrap lumps in kilograms.")),
	), h.handleComputeShiftMetrics)

	// --- 2. Tool: list_customers ---
	s.AddTool(mcp.NewTool("list_customers",
		mcp.WithDescription("List the distinct customer names found in submitted production records."),
	), h.handleListCustomers)

	// --- 3. Tool: get_latest_record ---
	s.AddTool(mcp.NewTool("get_latest_record",
		mcp.WithDescription("Return the most recently submitted production record with its derived metrics."),
	), h.handleGetLatestRecord)

	// --- 4. Tool: get_production_report ---
	s.AddTool(mcp.NewTool("get_production_report",
		mcp.WithDescription("Return production records with recomputed metrics and Yes/No process flags."),
		mcp.WithString("section", mcp.Description("Only include this production line."), mcp.Enum(sections...)),
		mcp.WithString("customer", mcp.Description("Only include this customer.")),
		mcp.WithString("from", mcp.Description("Earliest record date (YYYY-MM-DD).")),
		mcp.WithString("to", mcp.Description("Latest record date (YYYY-MM-DD).")),
		mcp.WithNumber("limit", mcp.Description("Keep only the most recent N records.")),
	), h.handleGetProductionReport)

	return s
}

// StartMCPServer starts the shift log MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
