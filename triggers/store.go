package triggers

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an operation targets a document that does not
// exist, notably an atomic increment against a missing aggregate.
var ErrNotFound = errors.New("document not found")

// Store is the document-store surface the trigger engine needs. Production
// uses MongoStore; tests use an in-memory fake.
type Store interface {
	// Get returns the document with the given _id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (map[string]interface{}, error)

	// Put creates or overwrites the document with the given _id.
	Put(ctx context.Context, collection, id string, data map[string]interface{}) error

	// Insert adds a document under a fresh id and returns that id.
	Insert(ctx context.Context, collection string, data map[string]interface{}) (string, error)

	// Delete removes the document with the given _id. Deleting a missing
	// document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// AtomicIncrement adds delta to a numeric field using the store's
	// increment primitive, never read-modify-write. Returns ErrNotFound if
	// the document does not exist.
	AtomicIncrement(ctx context.Context, collection, id, field string, delta int64) error

	// QueryByField returns all documents matching the field filter at the
	// moment of the call.
	QueryByField(ctx context.Context, collection string, filter map[string]interface{}) ([]map[string]interface{}, error)
}
