package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// recordsTable is the name of the table holding production records.
const recordsTable = "production_records"

// recordColumns lists the writable columns in insert and scan order.
var recordColumns = []string{
	"section", "record_date", "shift_name", "shift_start", "shift_end",
	"breakdown_start_1", "breakdown_end_1", "breakdown_reason_1",
	"breakdown_start_2", "breakdown_end_2", "breakdown_reason_2",
	"customer_name", "brand", "mold_type", "wall_thickness", "date_insert",
	"bottom_mold_cooling", "bottle_general_strength", "processes",
	"shift_incharge", "operator_name", "helpers", "resin_grade",
	"virgin_kg", "regrind_kg", "good_bottles", "rejected_bottles", "preform", "lumps_kg",
	"operator_notes", "total_downtime_hours", "net_running_hours", "wastage_percentage",
	"created_at",
}

// fieldColumns maps distinct lookup fields to table columns.
var fieldColumns = map[schema.RecordField]string{
	schema.FieldCustomerName:  "customer_name",
	schema.FieldSection:       "section",
	schema.FieldBrand:         "brand",
	schema.FieldMoldType:      "mold_type",
	schema.FieldOperator:      "operator_name",
	schema.FieldShiftIncharge: "shift_incharge",
	schema.FieldResinGrade:    "resin_grade",
}

// SQLRecordStore implements the RecordStore interface on top of database/sql.
type SQLRecordStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RecordStore = &SQLRecordStore{} // Compile-time check

// openSQL opens and pings a database handle for a SQL backend.
func openSQL(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := defaultSQLitePath(connStr)
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=...", err)
		}

	default:
		return nil, fmt.Errorf("unsupported SQL backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file location is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

// NewSQLRecordStore opens a SQL backend and brings its schema up to date.
func NewSQLRecordStore(backend schema.DatabaseBackend, connStr string) (*SQLRecordStore, error) {
	db, err := openSQL(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := migrateUp(db, backend, connStr); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare %s table: %w", recordsTable, err)
	}

	return &SQLRecordStore{db: db, backend: backend}, nil
}

// placeholder returns the bind parameter for the n-th argument (1-based).
func (s *SQLRecordStore) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Save implements the RecordStore interface.
func (s *SQLRecordStore) Save(ctx context.Context, rec *schema.ProductionRecord) (string, error) {
	processes, err := json.Marshal(nonNilProcesses(rec.Processes))
	if err != nil {
		return "", fmt.Errorf("failed to marshal processes: %w", err)
	}

	args := []any{
		string(rec.Section), rec.Date, rec.Shift, rec.ShiftStart, rec.ShiftEnd,
		rec.BreakdownStart1, rec.BreakdownEnd1, rec.BreakdownReason1,
		rec.BreakdownStart2, rec.BreakdownEnd2, rec.BreakdownReason2,
		rec.CustomerName, rec.Brand, rec.MoldType, rec.WallThickness, rec.DateInsert,
		rec.BottomMoldCooling, rec.BottleGeneralStrength, string(processes),
		rec.ShiftIncharge, rec.Operator, rec.Helpers, rec.ResinGrade,
		rec.VirginKg.String(), rec.RegrindKg.String(), rec.GoodBottles.String(),
		rec.RejectedBottles.String(), rec.Preform.String(), rec.LumpsKg.String(),
		rec.OperatorNotes, rec.TotalDowntimeHours, rec.NetRunningHours, rec.WastagePercentage,
		rec.CreatedAt.UnixNano(),
	}

	marks := make([]string, len(recordColumns))
	for i := range marks {
		marks[i] = s.placeholder(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", recordsTable, strings.Join(recordColumns, ", "), strings.Join(marks, ", "))

	var id int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		err = s.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = s.db.ExecContext(ctx, query, args...)
		if err == nil {
			id, err = result.LastInsertId()
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert production record: %w", err)
	}

	return strconv.FormatInt(id, 10), nil
}

// FindAll implements the RecordStore interface.
func (s *SQLRecordStore) FindAll(ctx context.Context, filter schema.RecordFilter) ([]schema.ProductionRecord, error) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, s.placeholder(len(args))))
	}
	if filter.Section != "" {
		add("section = %s", string(filter.Section))
	}
	if filter.Customer != "" {
		add("customer_name = %s", filter.Customer)
	}
	if filter.DateFrom != "" {
		add("record_date >= %s", filter.DateFrom)
	}
	if filter.DateTo != "" {
		add("record_date <= %s", filter.DateTo)
	}

	columns := "id, " + strings.Join(recordColumns, ", ")
	query := fmt.Sprintf("SELECT %s FROM %s", columns, recordsTable)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if filter.Limit > 0 {
		// Keep the most recent records but return them in submission order
		query = fmt.Sprintf("SELECT %s FROM (%s ORDER BY created_at DESC, id DESC LIMIT %d) AS recent", columns, query, filter.Limit)
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query production records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ProductionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate production records: %w", err)
	}
	return results, nil
}

// Distinct implements the RecordStore interface.
func (s *SQLRecordStore) Distinct(ctx context.Context, field schema.RecordField) ([]string, error) {
	column, ok := fieldColumns[field]
	if !ok {
		return nil, fmt.Errorf("unsupported distinct field: %s", field)
	}

	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s <> ''", column, recordsTable, column)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", field, err)
	}
	defer func() { _ = rows.Close() }()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan distinct %s: %w", field, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate distinct %s: %w", field, err)
	}
	sort.Strings(values)
	return values, nil
}

// FindLatest implements the RecordStore interface.
func (s *SQLRecordStore) FindLatest(ctx context.Context) (*schema.ProductionRecord, error) {
	query := fmt.Sprintf("SELECT id, %s FROM %s ORDER BY created_at DESC, id DESC LIMIT 1", strings.Join(recordColumns, ", "), recordsTable)
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contract.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetStatus implements the RecordStore interface.
func (s *SQLRecordStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:          string(s.backend),
		Connected:        s.db != nil,
		RecordsBySection: make(map[string]int),
	}
	if s.db == nil {
		return status, nil
	}

	query := fmt.Sprintf("SELECT COUNT(*), COALESCE(MIN(created_at), 0), COALESCE(MAX(created_at), 0) FROM %s", recordsTable)
	var oldest, latest int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&status.TotalRecords, &oldest, &latest); err != nil {
		return status, fmt.Errorf("failed to get record totals: %w", err)
	}
	if status.TotalRecords == 0 {
		return status, nil
	}
	status.OldestRecordTime = time.Unix(0, oldest).UTC()
	status.LastRecordTime = time.Unix(0, latest).UTC()

	query = fmt.Sprintf("SELECT COUNT(DISTINCT customer_name) FROM %s WHERE customer_name <> ''", recordsTable)
	if err := s.db.QueryRowContext(ctx, query).Scan(&status.DistinctCustomers); err != nil {
		return status, fmt.Errorf("failed to count customers: %w", err)
	}

	query = fmt.Sprintf("SELECT section, COUNT(*) FROM %s GROUP BY section", recordsTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return status, fmt.Errorf("failed to count records by section: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var section string
		var count int
		if err := rows.Scan(&section, &count); err != nil {
			return status, fmt.Errorf("failed to scan section count: %w", err)
		}
		status.RecordsBySection[section] = count
	}
	return status, rows.Err()
}

// Close implements the RecordStore interface.
func (s *SQLRecordStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads a row selected as "id, <recordColumns>".
func scanRecord(row rowScanner) (*schema.ProductionRecord, error) {
	var rec schema.ProductionRecord
	var id, createdAt int64
	var processes string
	var virgin, regrind, good, rejected, preform, lumps string

	err := row.Scan(
		&id,
		&rec.Section, &rec.Date, &rec.Shift, &rec.ShiftStart, &rec.ShiftEnd,
		&rec.BreakdownStart1, &rec.BreakdownEnd1, &rec.BreakdownReason1,
		&rec.BreakdownStart2, &rec.BreakdownEnd2, &rec.BreakdownReason2,
		&rec.CustomerName, &rec.Brand, &rec.MoldType, &rec.WallThickness, &rec.DateInsert,
		&rec.BottomMoldCooling, &rec.BottleGeneralStrength, &processes,
		&rec.ShiftIncharge, &rec.Operator, &rec.Helpers, &rec.ResinGrade,
		&virgin, &regrind, &good, &rejected, &preform, &lumps,
		&rec.OperatorNotes, &rec.TotalDowntimeHours, &rec.NetRunningHours, &rec.WastagePercentage,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan production record: %w", err)
	}

	if err := json.Unmarshal([]byte(processes), &rec.Processes); err != nil {
		return nil, fmt.Errorf("failed to decode processes for record %d: %w", id, err)
	}
	rec.ID = strconv.FormatInt(id, 10)
	rec.VirginKg = schema.Quantity(virgin)
	rec.RegrindKg = schema.Quantity(regrind)
	rec.GoodBottles = schema.Quantity(good)
	rec.RejectedBottles = schema.Quantity(rejected)
	rec.Preform = schema.Quantity(preform)
	rec.LumpsKg = schema.Quantity(lumps)
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return &rec, nil
}

// nonNilProcesses keeps an empty selection encoded as [] rather than null.
func nonNilProcesses(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}
