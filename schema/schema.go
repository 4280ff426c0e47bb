// Package schema has the models, constants and report layout shared by every part of shiftlog.
package schema

import "time"

// ProductionRecord is one shift-production log entry as submitted from the floor.
// Time fields are local "HH:MM" strings with no date component.
type ProductionRecord struct {
	ID string `json:"id,omitempty" form:"-"`

	// Shift and runtime
	Section    Section `json:"section" form:"section"`
	Date       string  `json:"date" form:"date"`
	Shift      string  `json:"shift" form:"shift"`
	ShiftStart string  `json:"shiftStart" form:"shiftStart"`
	ShiftEnd   string  `json:"shiftEnd" form:"shiftEnd"`

	// Downtime
	BreakdownStart1  string `json:"breakdownStart1" form:"breakdownStart1"`
	BreakdownEnd1    string `json:"breakdownEnd1" form:"breakdownEnd1"`
	BreakdownReason1 string `json:"breakdownReason1" form:"breakdownReason1"`
	BreakdownStart2  string `json:"breakdownStart2" form:"breakdownStart2"`
	BreakdownEnd2    string `json:"breakdownEnd2" form:"breakdownEnd2"`
	BreakdownReason2 string `json:"breakdownReason2" form:"breakdownReason2"`

	// Job details
	CustomerName          string `json:"customerName" form:"customerName"`
	Brand                 string `json:"brand" form:"brand"`
	MoldType              string `json:"moldType" form:"moldType"`
	WallThickness         string `json:"wallThickness" form:"wallThickness"`
	DateInsert            string `json:"dateInsert" form:"dateInsert"`
	BottomMoldCooling     string `json:"bottomMoldCooling" form:"bottomMoldCooling"`
	BottleGeneralStrength string `json:"bottleGeneralStrength" form:"bottleGeneralStrength"`

	// Post-production and crew
	Processes     []string `json:"processes" form:"processes"`
	ShiftIncharge string   `json:"shiftIncharge" form:"shiftIncharge"`
	Operator      string   `json:"operator" form:"operator"`
	Helpers       string   `json:"helpers" form:"helpers"`

	// Material and output
	ResinGrade      string   `json:"resinGrade" form:"resinGrade"`
	VirginKg        Quantity `json:"virginKg" form:"virginKg"`
	RegrindKg       Quantity `json:"regrindKg" form:"regrindKg"`
	GoodBottles     Quantity `json:"goodBottles" form:"goodBottles"`
	RejectedBottles Quantity `json:"rejectedBottles" form:"rejectedBottles"`
	Preform         Quantity `json:"preform" form:"preform"`
	LumpsKg         Quantity `json:"lumpsKg" form:"lumpsKg"`

	OperatorNotes string `json:"operatorNotes" form:"operatorNotes"`

	// Derived values persisted next to the raw fields for convenience.
	// Reports always recompute them from the raw fields.
	TotalDowntimeHours string `json:"totalDowntimeHours" form:"-"`
	NetRunningHours    string `json:"netRunningHours" form:"-"`
	WastagePercentage  string `json:"wastagePercentage" form:"-"`

	CreatedAt time.Time `json:"createdAt" form:"-"`
}

// RecordFilter narrows FindAll results. Zero values mean no restriction.
type RecordFilter struct {
	Section  Section // Exact section match
	Customer string  // Exact customer name match
	DateFrom string  // Inclusive lower bound on the YYYY-MM-DD record date
	DateTo   string  // Inclusive upper bound on the YYYY-MM-DD record date
	Limit    int     // Maximum number of records (0 = all)
}

// BreakdownInterval is a single stop of the line within a shift.
type BreakdownInterval struct {
	Start string
	End   string
}

// ShiftTimeInput holds the raw clock values needed for running-hour math.
type ShiftTimeInput struct {
	ShiftStart string
	ShiftEnd   string
	Breakdowns []BreakdownInterval // At most two are considered
}

// MaterialCounts holds the coerced output counters needed for wastage math.
type MaterialCounts struct {
	Section         Section
	GoodBottles     float64
	RejectedBottles float64
	Preform         float64
	LumpsKg         float64
}

// RunningHours is the time half of the derived metrics.
type RunningHours struct {
	NetRunningHours    float64
	TotalDowntimeHours float64
}

// DerivedMetrics is the full calculator output for a record.
// Hour values may be NaN when a clock field is malformed.
type DerivedMetrics struct {
	NetRunningHours    float64
	TotalDowntimeHours float64
	WastagePercentage  float64
}

// MetricsView is the presentation form of DerivedMetrics sent to clients.
type MetricsView struct {
	NetRunningHours    string `json:"netRunningHours"`
	TotalDowntimeHours string `json:"totalDowntimeHours"`
	WastagePercentage  string `json:"wastagePercentage"`
	WastageAlert       bool   `json:"wastageAlert"`
	Available          bool   `json:"available"`
}

// ShiftTimeInput builds the calculator time input from the record.
func (r *ProductionRecord) ShiftTimeInput() ShiftTimeInput {
	return ShiftTimeInput{
		ShiftStart: r.ShiftStart,
		ShiftEnd:   r.ShiftEnd,
		Breakdowns: []BreakdownInterval{
			{Start: r.BreakdownStart1, End: r.BreakdownEnd1},
			{Start: r.BreakdownStart2, End: r.BreakdownEnd2},
		},
	}
}

// MaterialCounts builds the calculator material input from the record.
func (r *ProductionRecord) MaterialCounts() MaterialCounts {
	return MaterialCounts{
		Section:         r.Section,
		GoodBottles:     r.GoodBottles.Pieces(),
		RejectedBottles: r.RejectedBottles.Pieces(),
		Preform:         r.Preform.Pieces(),
		LumpsKg:         r.LumpsKg.Kg(),
	}
}

// HasProcess reports whether the named process was ticked.
func (r *ProductionRecord) HasProcess(p Process) bool {
	for _, name := range r.Processes {
		if name == string(p) {
			return true
		}
	}
	return false
}
