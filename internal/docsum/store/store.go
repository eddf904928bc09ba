package store

import (
	"context"
	"errors"

	"github.com/kart-io/docsum/internal/model"
)

// ErrNotFound is returned when a document or summary does not exist.
var ErrNotFound = errors.New("store: record not found")

// Factory defines the factory interface for creating stores.
type Factory interface {
	Documents() DocumentStore
	Summaries() SummaryStore
	Close() error
}

// DocumentStore defines the original-document storage interface.
// Writes are append-only: re-submitting the same file id inserts a new
// record rather than overwriting.
type DocumentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	Get(ctx context.Context, fileID string) (*model.Document, error)
	PurgeAll(ctx context.Context) (int64, error)
}

// SummaryStore defines the summary storage interface.
type SummaryStore interface {
	Create(ctx context.Context, rec *model.SummaryRecord) error
	// Get returns the oldest summary for the file id when duplicates exist.
	Get(ctx context.Context, fileID string) (*model.SummaryRecord, error)
	// ListAll returns the file id and summary text of every record.
	ListAll(ctx context.Context) ([]model.SummaryListItem, error)
	PurgeAll(ctx context.Context) (int64, error)
}
