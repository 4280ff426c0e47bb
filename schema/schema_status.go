package schema

import "time"

// StoreStatus represents the status of the record store.
type StoreStatus struct {
	Backend           string         `json:"backend"`
	Connected         bool           `json:"connected"`
	TotalRecords      int            `json:"total_records"`
	DistinctCustomers int            `json:"distinct_customers"`
	RecordsBySection  map[string]int `json:"records_by_section"`
	LastRecordTime    time.Time      `json:"last_record_time"`
	OldestRecordTime  time.Time      `json:"oldest_record_time"`
}
