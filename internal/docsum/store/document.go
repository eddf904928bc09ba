package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kart-io/docsum/internal/model"
)

type documents struct {
	coll *mongo.Collection
}

func newDocuments(coll *mongo.Collection) *documents {
	return &documents{coll: coll}
}

// Create inserts a new document record.
func (d *documents) Create(ctx context.Context, doc *model.Document) error {
	if _, err := d.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// Get retrieves a document by file id. When duplicates exist the
// earliest inserted record wins (natural order).
func (d *documents) Get(ctx context.Context, fileID string) (*model.Document, error) {
	var doc model.Document
	err := d.coll.FindOne(ctx, bson.M{"file_id": fileID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return &doc, nil
}

// PurgeAll removes every document record and returns the deleted count.
func (d *documents) PurgeAll(ctx context.Context) (int64, error) {
	res, err := d.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("purge documents: %w", err)
	}
	return res.DeletedCount, nil
}
