package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for record storage.
	DatabaseBackend string

	// Section identifies a blow-molding production line.
	Section string

	// Process names a post-production decoration step.
	Process string

	// RecordField names a record attribute that supports distinct lookups.
	RecordField string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	XLSXOut    OutputMode = "xlsx"
	ParquetOut OutputMode = "parquet"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	MongoDBBackend    DatabaseBackend = "mongodb"
	MemoryBackend     DatabaseBackend = "memory"
)

// Production lines on the factory floor.
const (
	SectionASB1 Section = "ASB 1 (PET)"
	SectionASB2 Section = "ASB 2 (PC)"
)

// Post-production processes an operator can tick on the form.
const (
	ProcessEmbossing      Process = "Embossing"
	ProcessScreenPrinting Process = "Screen Printing"
	ProcessHotStamping    Process = "Hot-Stamping"
	ProcessLabelling      Process = "Labelling"
)

// Fields that can be used for distinct lookups.
const (
	FieldCustomerName  RecordField = "customerName"
	FieldSection       RecordField = "section"
	FieldBrand         RecordField = "brand"
	FieldMoldType      RecordField = "moldType"
	FieldOperator      RecordField = "operator"
	FieldShiftIncharge RecordField = "shiftIncharge"
	FieldResinGrade    RecordField = "resinGrade"
)

// AllSections lists the known production lines in display order.
var AllSections = []Section{SectionASB1, SectionASB2}

// AllProcesses lists the post-production processes in report column order.
var AllProcesses = []Process{ProcessEmbossing, ProcessScreenPrinting, ProcessHotStamping, ProcessLabelling}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	XLSXOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	MongoDBBackend:    {},
	MemoryBackend:     {},
}

// ValidRecordFields lists the fields accepted by distinct lookups.
var ValidRecordFields = map[RecordField]struct{}{
	FieldCustomerName:  {},
	FieldSection:       {},
	FieldBrand:         {},
	FieldMoldType:      {},
	FieldOperator:      {},
	FieldShiftIncharge: {},
	FieldResinGrade:    {},
}

// DefaultUnitWeights returns the built-in kg-per-piece table for the known sections.
func DefaultUnitWeights() map[Section]float64 {
	return map[Section]float64{
		SectionASB1: 0.706,
		SectionASB2: 0.820,
	}
}
