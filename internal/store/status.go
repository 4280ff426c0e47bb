package store

import (
	"fmt"
	"io"
	"sort"

	"github.com/blowline/shiftlog/schema"
)

// PrintStoreStatus prints record store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Records: %d\n", status.TotalRecords)
	if status.TotalRecords == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "Distinct Customers: %d\n", status.DistinctCustomers)
	_, _ = fmt.Fprintf(w, "Last Record: %s\n", status.LastRecordTime.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "Oldest Record: %s\n", status.OldestRecordTime.Format("2006-01-02 15:04:05"))

	sections := make([]string, 0, len(status.RecordsBySection))
	for section := range status.RecordsBySection {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	_, _ = fmt.Fprintln(w, "Records By Section:")
	for _, section := range sections {
		_, _ = fmt.Fprintf(w, "  %s: %d\n", section, status.RecordsBySection[section])
	}
}

// PrintMigrationStatus prints the applied schema version of a SQL backend.
func PrintMigrationStatus(w io.Writer, version uint, dirty bool) {
	_, _ = fmt.Fprintf(w, "Schema Version: %d\n", version)
	if dirty {
		_, _ = fmt.Fprintln(w, "Schema State: dirty (run 'shiftlog db migrate' with an explicit version to repair)")
	}
}
