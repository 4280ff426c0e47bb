package schema

// Report sheet and download file names.
const (
	AllProductionSheet = "All Production"
	ReportFilePrefix   = "Production_Report_"
	ReportFileAll      = "Production_Report_All.xlsx"
)

// ReportRow is one exported line: the raw record joined with its canonical derived values.
type ReportRow struct {
	Record             ProductionRecord `json:"record"`
	Metrics            DerivedMetrics   `json:"-"`
	TotalDowntimeHours string           `json:"totalDowntimeHours"`
	NetRunningHours    string           `json:"netRunningHours"`
	WastagePercentage  string           `json:"wastagePercentage"`
	WastageAlert       bool             `json:"wastageAlert"`
	Embossing          string           `json:"embossing"`
	ScreenPrinting     string           `json:"screenPrinting"`
	HotStamping        string           `json:"hotStamping"`
	Labelling          string           `json:"labelling"`
}

// Report is the export of a filtered set of records.
type Report struct {
	SheetName string      `json:"sheetName"`
	FileName  string      `json:"fileName"`
	Rows      []ReportRow `json:"rows"`
}

// ReportColumn describes one spreadsheet column.
type ReportColumn struct {
	Header string
	Key    string
	Width  float64
}

// ReportColumns is the column layout shared by the XLSX, CSV and Parquet exports.
var ReportColumns = []ReportColumn{
	{"Section", "section", 10},
	{"Date", "date", 12},
	{"Shift", "shift", 10},
	{"Start Time", "shiftStart", 10},
	{"End Time", "shiftEnd", 10},
	{"Downtime 1 Stop", "breakdownStart1", 15},
	{"Downtime 1 Start", "breakdownEnd1", 15},
	{"Downtime 1 Reason", "breakdownReason1", 20},
	{"Downtime 2 Stop", "breakdownStart2", 15},
	{"Downtime 2 Start", "breakdownEnd2", 15},
	{"Downtime 2 Reason", "breakdownReason2", 20},
	{"Total Downtime (Hrs)", "totalDowntimeHours", 18},
	{"Net Running Hours", "netRunningHours", 18},
	{"Customer Name", "customerName", 20},
	{"Brand", "brand", 15},
	{"Mold Type", "moldType", 15},
	{"Wall thickness (Good/Bad)", "wallThickness", 20},
	{"Date insert (Yes/No)", "dateInsert", 18},
	{"Bottom mold/ cooling (Yes/No)", "bottomMoldCooling", 25},
	{"Bottle strength (Good/Bad)", "bottleGeneralStrength", 22},
	{"Embossing", "embossing", 10},
	{"Screen Printing", "screenPrinting", 15},
	{"Hot-Stamping", "hotStamping", 15},
	{"Labelling", "labelling", 10},
	{"Shift Incharge", "shiftIncharge", 15},
	{"Operator", "operator", 15},
	{"Helpers", "helpers", 20},
	{"Resin/Grade", "resinGrade", 15},
	{"Virgin (KG)", "virginKg", 12},
	{"Regrind (KG)", "regrindKg", 12},
	{"Good Bottles (Pcs)", "goodBottles", 15},
	{"Rejected Bottles (Pcs)", "rejectedBottles", 18},
	{"Preform (Pcs)", "preform", 12},
	{"Lump (KG)", "lumpsKg", 12},
	{"Wastage (%)", "wastagePercentage", 14},
	{"Operator Notes", "operatorNotes", 30},
}

// ReportHeaders returns the header line of the report.
func ReportHeaders() []string {
	headers := make([]string, len(ReportColumns))
	for i, c := range ReportColumns {
		headers[i] = c.Header
	}
	return headers
}

// Values returns the row cells in ReportColumns order.
func (r *ReportRow) Values() []string {
	rec := &r.Record
	return []string{
		string(rec.Section),
		rec.Date,
		rec.Shift,
		rec.ShiftStart,
		rec.ShiftEnd,
		rec.BreakdownStart1,
		rec.BreakdownEnd1,
		rec.BreakdownReason1,
		rec.BreakdownStart2,
		rec.BreakdownEnd2,
		rec.BreakdownReason2,
		r.TotalDowntimeHours,
		r.NetRunningHours,
		rec.CustomerName,
		rec.Brand,
		rec.MoldType,
		rec.WallThickness,
		rec.DateInsert,
		rec.BottomMoldCooling,
		rec.BottleGeneralStrength,
		r.Embossing,
		r.ScreenPrinting,
		r.HotStamping,
		r.Labelling,
		rec.ShiftIncharge,
		rec.Operator,
		rec.Helpers,
		rec.ResinGrade,
		rec.VirginKg.String(),
		rec.RegrindKg.String(),
		rec.GoodBottles.String(),
		rec.RejectedBottles.String(),
		rec.Preform.String(),
		rec.LumpsKg.String(),
		r.WastagePercentage,
		rec.OperatorNotes,
	}
}
