package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// recordsCollection matches the collection the web form has always written to.
const recordsCollection = "productionrecords"

const mongoTimeout = 10 * time.Second

// mongoRecord is the stored document shape. Quantities are decoded loosely
// because older documents hold them as numbers.
type mongoRecord struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	Section               string             `bson:"section"`
	Date                  string             `bson:"date"`
	Shift                 string             `bson:"shift"`
	ShiftStart            string             `bson:"shiftStart"`
	ShiftEnd              string             `bson:"shiftEnd"`
	BreakdownStart1       string             `bson:"breakdownStart1"`
	BreakdownEnd1         string             `bson:"breakdownEnd1"`
	BreakdownReason1      string             `bson:"breakdownReason1"`
	BreakdownStart2       string             `bson:"breakdownStart2"`
	BreakdownEnd2         string             `bson:"breakdownEnd2"`
	BreakdownReason2      string             `bson:"breakdownReason2"`
	CustomerName          string             `bson:"customerName"`
	Brand                 string             `bson:"brand"`
	MoldType              string             `bson:"moldType"`
	WallThickness         string             `bson:"wallThickness"`
	DateInsert            string             `bson:"dateInsert"`
	BottomMoldCooling     string             `bson:"bottomMoldCooling"`
	BottleGeneralStrength string             `bson:"bottleGeneralStrength"`
	Processes             []string           `bson:"processes"`
	ShiftIncharge         string             `bson:"shiftIncharge"`
	Operator              string             `bson:"operator"`
	Helpers               string             `bson:"helpers"`
	ResinGrade            string             `bson:"resinGrade"`
	VirginKg              any                `bson:"virginKg"`
	RegrindKg             any                `bson:"regrindKg"`
	GoodBottles           any                `bson:"goodBottles"`
	RejectedBottles       any                `bson:"rejectedBottles"`
	Preform               any                `bson:"preform"`
	LumpsKg               any                `bson:"lumpsKg"`
	OperatorNotes         string             `bson:"operatorNotes"`
	TotalDowntimeHours    string             `bson:"totalDowntimeHours"`
	NetRunningHours       string             `bson:"netRunningHours"`
	WastagePercentage     string             `bson:"wastagePercentage"`
	CreatedAt             time.Time          `bson:"createdAt"`
}

// MongoRecordStore implements the RecordStore interface on MongoDB.
type MongoRecordStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ contract.RecordStore = &MongoRecordStore{} // Compile-time check

// NewMongoRecordStore connects to MongoDB and selects the records collection.
func NewMongoRecordStore(ctx context.Context, uri, dbName string) (*MongoRecordStore, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to open MongoDB client: %w. Check connection string format: mongodb://host:port", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to connect to mongodb database: %w. Check that MongoDB is running and the URI is correct.", err)
	}

	return &MongoRecordStore{
		client: client,
		coll:   client.Database(dbName).Collection(recordsCollection),
	}, nil
}

// Save implements the RecordStore interface.
func (s *MongoRecordStore) Save(ctx context.Context, rec *schema.ProductionRecord) (string, error) {
	doc := toMongoRecord(rec)
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert production record: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// FindAll implements the RecordStore interface.
func (s *MongoRecordStore) FindAll(ctx context.Context, filter schema.RecordFilter) ([]schema.ProductionRecord, error) {
	query := bson.D{}
	if filter.Section != "" {
		query = append(query, bson.E{Key: "section", Value: string(filter.Section)})
	}
	if filter.Customer != "" {
		query = append(query, bson.E{Key: "customerName", Value: filter.Customer})
	}
	if filter.DateFrom != "" || filter.DateTo != "" {
		rng := bson.D{}
		if filter.DateFrom != "" {
			rng = append(rng, bson.E{Key: "$gte", Value: filter.DateFrom})
		}
		if filter.DateTo != "" {
			rng = append(rng, bson.E{Key: "$lte", Value: filter.DateTo})
		}
		query = append(query, bson.E{Key: "date", Value: rng})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts = options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(int64(filter.Limit))
	}

	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query production records: %w", err)
	}
	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode production records: %w", err)
	}
	if filter.Limit > 0 {
		slices.Reverse(docs)
	}

	results := make([]schema.ProductionRecord, 0, len(docs))
	for i := range docs {
		results = append(results, docs[i].toRecord())
	}
	return results, nil
}

// Distinct implements the RecordStore interface.
func (s *MongoRecordStore) Distinct(ctx context.Context, field schema.RecordField) ([]string, error) {
	if _, ok := schema.ValidRecordFields[field]; !ok {
		return nil, fmt.Errorf("unsupported distinct field: %s", field)
	}
	raw, err := s.coll.Distinct(ctx, string(field), bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", field, err)
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok && str != "" {
			values = append(values, str)
		}
	}
	sort.Strings(values)
	return values, nil
}

// FindLatest implements the RecordStore interface.
func (s *MongoRecordStore) FindLatest(ctx context.Context) (*schema.ProductionRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, contract.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest production record: %w", err)
	}
	rec := doc.toRecord()
	return &rec, nil
}

// GetStatus implements the RecordStore interface.
func (s *MongoRecordStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:          string(schema.MongoDBBackend),
		Connected:        s.client != nil,
		RecordsBySection: make(map[string]int),
	}

	total, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return status, fmt.Errorf("failed to count records: %w", err)
	}
	status.TotalRecords = int(total)
	if total == 0 {
		return status, nil
	}

	customers, err := s.Distinct(ctx, schema.FieldCustomerName)
	if err != nil {
		return status, err
	}
	status.DistinctCustomers = len(customers)

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$section"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "oldest", Value: bson.D{{Key: "$min", Value: "$createdAt"}}},
			{Key: "latest", Value: bson.D{{Key: "$max", Value: "$createdAt"}}},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return status, fmt.Errorf("failed to count records by section: %w", err)
	}
	var groups []struct {
		Section string    `bson:"_id"`
		Count   int       `bson:"count"`
		Oldest  time.Time `bson:"oldest"`
		Latest  time.Time `bson:"latest"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return status, fmt.Errorf("failed to decode section counts: %w", err)
	}
	for _, g := range groups {
		status.RecordsBySection[g.Section] = g.Count
		if status.OldestRecordTime.IsZero() || g.Oldest.Before(status.OldestRecordTime) {
			status.OldestRecordTime = g.Oldest
		}
		if g.Latest.After(status.LastRecordTime) {
			status.LastRecordTime = g.Latest
		}
	}
	return status, nil
}

// Close implements the RecordStore interface.
func (s *MongoRecordStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// dropMongoCollection removes the records collection.
func dropMongoCollection(ctx context.Context, uri, dbName string) error {
	s, err := NewMongoRecordStore(ctx, uri, dbName)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.coll.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", recordsCollection, err)
	}
	return nil
}

func toMongoRecord(rec *schema.ProductionRecord) mongoRecord {
	return mongoRecord{
		Section:               string(rec.Section),
		Date:                  rec.Date,
		Shift:                 rec.Shift,
		ShiftStart:            rec.ShiftStart,
		ShiftEnd:              rec.ShiftEnd,
		BreakdownStart1:       rec.BreakdownStart1,
		BreakdownEnd1:         rec.BreakdownEnd1,
		BreakdownReason1:      rec.BreakdownReason1,
		BreakdownStart2:       rec.BreakdownStart2,
		BreakdownEnd2:         rec.BreakdownEnd2,
		BreakdownReason2:      rec.BreakdownReason2,
		CustomerName:          rec.CustomerName,
		Brand:                 rec.Brand,
		MoldType:              rec.MoldType,
		WallThickness:         rec.WallThickness,
		DateInsert:            rec.DateInsert,
		BottomMoldCooling:     rec.BottomMoldCooling,
		BottleGeneralStrength: rec.BottleGeneralStrength,
		Processes:             nonNilProcesses(rec.Processes),
		ShiftIncharge:         rec.ShiftIncharge,
		Operator:              rec.Operator,
		Helpers:               rec.Helpers,
		ResinGrade:            rec.ResinGrade,
		VirginKg:              rec.VirginKg.String(),
		RegrindKg:             rec.RegrindKg.String(),
		GoodBottles:           rec.GoodBottles.String(),
		RejectedBottles:       rec.RejectedBottles.String(),
		Preform:               rec.Preform.String(),
		LumpsKg:               rec.LumpsKg.String(),
		OperatorNotes:         rec.OperatorNotes,
		TotalDowntimeHours:    rec.TotalDowntimeHours,
		NetRunningHours:       rec.NetRunningHours,
		WastagePercentage:     rec.WastagePercentage,
		CreatedAt:             rec.CreatedAt,
	}
}

func (d *mongoRecord) toRecord() schema.ProductionRecord {
	return schema.ProductionRecord{
		ID:                    d.ID.Hex(),
		Section:               schema.Section(d.Section),
		Date:                  d.Date,
		Shift:                 d.Shift,
		ShiftStart:            d.ShiftStart,
		ShiftEnd:              d.ShiftEnd,
		BreakdownStart1:       d.BreakdownStart1,
		BreakdownEnd1:         d.BreakdownEnd1,
		BreakdownReason1:      d.BreakdownReason1,
		BreakdownStart2:       d.BreakdownStart2,
		BreakdownEnd2:         d.BreakdownEnd2,
		BreakdownReason2:      d.BreakdownReason2,
		CustomerName:          d.CustomerName,
		Brand:                 d.Brand,
		MoldType:              d.MoldType,
		WallThickness:         d.WallThickness,
		DateInsert:            d.DateInsert,
		BottomMoldCooling:     d.BottomMoldCooling,
		BottleGeneralStrength: d.BottleGeneralStrength,
		Processes:             d.Processes,
		ShiftIncharge:         d.ShiftIncharge,
		Operator:              d.Operator,
		Helpers:               d.Helpers,
		ResinGrade:            d.ResinGrade,
		VirginKg:              quantityFromBSON(d.VirginKg),
		RegrindKg:             quantityFromBSON(d.RegrindKg),
		GoodBottles:           quantityFromBSON(d.GoodBottles),
		RejectedBottles:       quantityFromBSON(d.RejectedBottles),
		Preform:               quantityFromBSON(d.Preform),
		LumpsKg:               quantityFromBSON(d.LumpsKg),
		OperatorNotes:         d.OperatorNotes,
		TotalDowntimeHours:    d.TotalDowntimeHours,
		NetRunningHours:       d.NetRunningHours,
		WastagePercentage:     d.WastagePercentage,
		CreatedAt:             d.CreatedAt.UTC(),
	}
}

// quantityFromBSON renders whatever scalar a document holds as a Quantity.
func quantityFromBSON(v any) schema.Quantity {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return schema.Quantity(t)
	case int32:
		return schema.Quantity(strconv.FormatInt(int64(t), 10))
	case int64:
		return schema.Quantity(strconv.FormatInt(t, 10))
	case float64:
		return schema.Quantity(strconv.FormatFloat(t, 'f', -1, 64))
	case primitive.Decimal128:
		return schema.Quantity(t.String())
	default:
		return schema.Quantity(fmt.Sprint(t))
	}
}
