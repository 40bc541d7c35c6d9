package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assistant/internal/domain/models"
	"assistant/internal/query"
)

// DocumentStore is the uniform create/read/update/delete contract over named
// collections. Collection names are passed per call.
//
// Every operation rejects an empty collection with domain.ErrCollectionMissing
// before any I/O.
type DocumentStore interface {
	// Create serializes and inserts doc, returning the assigned identifier.
	// Fails with ErrNoData for an empty document, ErrCreateFailed when the
	// write is not acknowledged and a *domain.ConflictError on a unique index clash.
	Create(ctx context.Context, collection string, doc models.Entity) (primitive.ObjectID, error)

	// Read returns every match in storage order. Fails with ErrNoFilter for an
	// empty filter and ErrNotFound when nothing matches.
	Read(ctx context.Context, collection string, q query.Query) ([]models.Record, error)

	// Update applies update to the first matching document. A nil error means a
	// document matched; zero matches is ErrNotFound.
	Update(ctx context.Context, collection string, filter, update bson.M) error

	// Delete removes the first matching document. Zero matches is ErrNotFound.
	Delete(ctx context.Context, collection string, filter bson.M) error
}

// Store is a DocumentStore that owns its connection and indexes
type Store interface {
	DocumentStore
	IndexManager
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
