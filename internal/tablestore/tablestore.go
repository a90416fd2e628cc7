// Package tablestore provides the partitioned key-value table the catalog is
// built on: rows addressed by (kind, id), single-row atomic writes gated on an
// opaque version tag, and full-partition scans. There is no multi-row
// atomicity and no secondary index beyond the (kind, id) key.
package tablestore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound signals the addressed row does not exist.
	ErrNotFound = errors.New("row not found")
	// ErrExists signals an insert hit an already-present (kind, id).
	ErrExists = errors.New("row already exists")
	// ErrVersionMismatch signals a conditional write lost a race: the row's
	// stored version tag no longer matches the one the caller read.
	ErrVersionMismatch = errors.New("row version mismatch")
)

// Row is one entity instance. Doc holds the serialized entity document;
// list-valued fields live inside Doc and are read-modify-written wholesale.
type Row struct {
	Kind    string
	ID      string
	Version string
	Doc     []byte
}

// Store is the table abstraction all catalog state goes through.
//
// Scan returns the complete partition for a kind in one call. Cascades depend
// on exhausting a partition within the request that triggered them, so
// adapters must not truncate or paginate the result. This is also the one
// seam where a real index over embedded references would slot in.
type Store interface {
	// Get returns the row at (kind, id) or ErrNotFound.
	Get(ctx context.Context, kind, id string) (Row, error)

	// Scan returns every row of the given kind.
	Scan(ctx context.Context, kind string) ([]Row, error)

	// Insert writes a new row and returns it with its initial version tag.
	// Fails with ErrExists if (kind, id) is already present.
	Insert(ctx context.Context, row Row) (Row, error)

	// Update rewrites the row's document if the stored version tag still
	// matches row.Version, returning the row with its new tag. Fails with
	// ErrVersionMismatch when a concurrent writer got there first.
	Update(ctx context.Context, row Row) (Row, error)

	// Delete removes the row at (kind, id). A non-empty version makes the
	// delete conditional on the stored tag.
	Delete(ctx context.Context, kind, id, version string) error

	// Close releases the underlying connection, if any.
	Close() error
}
