package store

import (
	"encoding/json"
	"fmt"

	"github.com/blowline/shiftlog/schema"
	"go.mongodb.org/mongo-driver/bson"
)

// DecodeRecordExport reads a JSON array of production records.
// Both plain JSON and MongoDB Extended JSON (as written by mongoexport --jsonArray) are accepted,
// so "_id": {"$oid": ...} and "createdAt": {"$date": ...} decode as expected.
// Imported records keep their creation time but never their original ID.
func DecodeRecordExport(data []byte) ([]schema.ProductionRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("expected a JSON array of records: %w", err)
	}

	records := make([]schema.ProductionRecord, 0, len(raw))
	for i, item := range raw {
		var doc mongoRecord
		if err := bson.UnmarshalExtJSON(item, false, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", i+1, err)
		}
		rec := doc.toRecord()
		rec.ID = ""
		records = append(records, rec)
	}
	return records, nil
}
