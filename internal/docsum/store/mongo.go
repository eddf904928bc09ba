package store

import (
	"github.com/kart-io/docsum/pkg/component/mongodb"
)

const (
	// CollectionDocuments holds uploaded documents.
	CollectionDocuments = "documents"
	// CollectionSummaries holds pipeline results.
	CollectionSummaries = "summaries"
)

// datastore is the MongoDB-backed store factory.
type datastore struct {
	client *mongodb.Client
}

// NewMongoFactory creates a store Factory backed by the given MongoDB client.
func NewMongoFactory(client *mongodb.Client) Factory {
	return &datastore{client: client}
}

func (ds *datastore) Documents() DocumentStore {
	return newDocuments(ds.client.Collection(CollectionDocuments))
}

func (ds *datastore) Summaries() SummaryStore {
	return newSummaries(ds.client.Collection(CollectionSummaries))
}

func (ds *datastore) Close() error {
	return ds.client.Close()
}
