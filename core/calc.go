package core

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/blowline/shiftlog/schema"
)

const (
	minutesPerDay  = 1440
	maxBreakdowns  = 2
	minutesPerHour = 60.0
)

// DefaultWastageAlert is the wastage percentage above which a shift is flagged.
const DefaultWastageAlert = 3.0

// WeightTable maps a section to the mass of one molded piece in kilograms.
// It is built once at startup and only read afterwards.
type WeightTable struct {
	weights  map[schema.Section]float64
	fallback float64
}

// NewWeightTable merges overrides over the built-in table.
// Sections missing from the result weigh fallback kilograms per piece.
func NewWeightTable(overrides map[schema.Section]float64, fallback float64) WeightTable {
	weights := schema.DefaultUnitWeights()
	maps.Copy(weights, overrides)
	return WeightTable{weights: weights, fallback: fallback}
}

// Lookup returns the unit weight of a section and whether the section is known.
func (w WeightTable) Lookup(section schema.Section) (float64, bool) {
	v, ok := w.weights[section]
	if !ok {
		return w.fallback, false
	}
	return v, true
}

// Sections returns a copy of the known weights.
func (w WeightTable) Sections() map[schema.Section]float64 {
	return maps.Clone(w.weights)
}

// Calculator derives shift metrics from raw record fields.
// The interactive preview and the report export both go through it.
type Calculator struct {
	Weights      WeightTable
	WastageAlert float64
}

// NewCalculator returns a Calculator over the given weights.
func NewCalculator(weights WeightTable, wastageAlert float64) *Calculator {
	return &Calculator{Weights: weights, WastageAlert: wastageAlert}
}

// DefaultCalculator uses the built-in weights, a zero fallback and the default alert level.
func DefaultCalculator() *Calculator {
	return NewCalculator(NewWeightTable(nil, 0), DefaultWastageAlert)
}

// Metrics computes running hours and wastage for a record.
func (c *Calculator) Metrics(rec *schema.ProductionRecord) schema.DerivedMetrics {
	hours := ComputeRunningHours(rec.ShiftTimeInput())
	counts := rec.MaterialCounts()
	weight, _ := c.Weights.Lookup(counts.Section)
	return schema.DerivedMetrics{
		NetRunningHours:    hours.NetRunningHours,
		TotalDowntimeHours: hours.TotalDowntimeHours,
		WastagePercentage:  ComputeWastage(counts, weight),
	}
}

// View formats derived metrics for clients.
func (c *Calculator) View(m schema.DerivedMetrics) schema.MetricsView {
	return schema.MetricsView{
		NetRunningHours:    FormatHours(m.NetRunningHours),
		TotalDowntimeHours: FormatHours(m.TotalDowntimeHours),
		WastagePercentage:  FormatPercentage(m.WastagePercentage),
		WastageAlert:       IsWastageAlert(m.WastagePercentage, c.WastageAlert),
		Available:          isFinite(m.NetRunningHours) && isFinite(m.TotalDowntimeHours),
	}
}

// ParseClock converts "HH:MM" into minutes since midnight.
// Empty input is 0. Text that is not two numeric parts is NaN.
func ParseClock(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return math.NaN()
	}
	h, ok := parseClockPart(parts[0])
	if !ok {
		return math.NaN()
	}
	m, ok := parseClockPart(parts[1])
	if !ok {
		return math.NaN()
	}
	return h*minutesPerHour + m
}

func parseClockPart(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ValidClock reports whether s is empty or a well-formed 24-hour "HH:MM" value.
func ValidClock(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return false
	}
	return true
}

// ComputeRunningHours returns net running and downtime hours for a shift.
// A shift or stop whose end is before its start runs past midnight.
// Downtime never pushes net running time below zero.
func ComputeRunningHours(in schema.ShiftTimeInput) schema.RunningHours {
	if strings.TrimSpace(in.ShiftStart) == "" || strings.TrimSpace(in.ShiftEnd) == "" {
		return schema.RunningHours{}
	}

	span := ParseClock(in.ShiftEnd) - ParseClock(in.ShiftStart)
	if span < 0 {
		span += minutesPerDay
	}
	// NaN fails every comparison, so a malformed clock flows through to the result.
	if span <= 0 {
		return schema.RunningHours{}
	}

	downtime := 0.0
	for i, b := range in.Breakdowns {
		if i >= maxBreakdowns {
			break
		}
		if strings.TrimSpace(b.Start) == "" || strings.TrimSpace(b.End) == "" {
			continue
		}
		d := ParseClock(b.End) - ParseClock(b.Start)
		if d < 0 {
			d += minutesPerDay
		}
		if d > 0 {
			downtime += d
		}
	}

	net := span - downtime
	if net < 0 {
		net = 0
	}
	return schema.RunningHours{
		NetRunningHours:    net / minutesPerHour,
		TotalDowntimeHours: downtime / minutesPerHour,
	}
}

// ComputeWastage returns scrap mass as a percentage of good plus scrap mass.
// It returns 0 when no material was entered.
func ComputeWastage(counts schema.MaterialCounts, unitWeight float64) float64 {
	goodKg := counts.GoodBottles * unitWeight
	rejectedKg := counts.RejectedBottles * unitWeight
	preformKg := counts.Preform * unitWeight

	wasteKg := rejectedKg + preformKg + counts.LumpsKg
	totalKg := goodKg + wasteKg
	if totalKg > 0 {
		return wasteKg / totalKg * 100
	}
	return 0
}

// IsWastageAlert reports whether pct is above the alert threshold.
func IsWastageAlert(pct, threshold float64) bool {
	return isFinite(pct) && pct > threshold
}

// FormatHours renders hours with two decimals, or "N/A" when unavailable.
func FormatHours(v float64) string {
	if !isFinite(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatPercentage renders a percentage like "15.13%", or "N/A" when unavailable.
func FormatPercentage(v float64) string {
	if !isFinite(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
