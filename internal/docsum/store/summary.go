package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kart-io/docsum/internal/model"
)

type summaries struct {
	coll *mongo.Collection
}

func newSummaries(coll *mongo.Collection) *summaries {
	return &summaries{coll: coll}
}

// Create inserts a new summary record.
func (s *summaries) Create(ctx context.Context, rec *model.SummaryRecord) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

// Get retrieves the oldest summary for a file id (natural order).
func (s *summaries) Get(ctx context.Context, fileID string) (*model.SummaryRecord, error) {
	var rec model.SummaryRecord
	err := s.coll.FindOne(ctx, bson.M{"file_id": fileID}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find summary: %w", err)
	}
	return &rec, nil
}

// ListAll returns file id and summary text for every record, in
// insertion order. Entities and timestamps are projected away.
func (s *summaries) ListAll(ctx context.Context) ([]model.SummaryListItem, error) {
	proj := options.Find().SetProjection(bson.M{
		"_id":     0,
		"file_id": 1,
		"summary": 1,
	})

	cur, err := s.coll.Find(ctx, bson.M{}, proj)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	items := make([]model.SummaryListItem, 0)
	for cur.Next(ctx) {
		var item model.SummaryListItem
		if err := cur.Decode(&item); err != nil {
			return nil, fmt.Errorf("decode summary item: %w", err)
		}
		items = append(items, item)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	return items, nil
}

// PurgeAll removes every summary record and returns the deleted count.
func (s *summaries) PurgeAll(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("purge summaries: %w", err)
	}
	return res.DeletedCount, nil
}
