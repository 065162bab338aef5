package shortener

import "context"

// Registry is the authoritative store of code -> record mappings.
//
// Implementations must make Insert an atomic check-then-insert: of two
// concurrent inserts for the same code exactly one succeeds and the other
// gets ErrDuplicateCode. IncrementHits must never lose increments.
type Registry interface {
	// Exists reports whether a record with the code is present, expired or not.
	Exists(ctx context.Context, code Code) (bool, error)

	// Insert stores a new record with zero hits.
	// Returns ErrDuplicateCode if the code is already present.
	Insert(ctx context.Context, shortURL *ShortURL) error

	// Get returns the record for code or ErrNotFound.
	Get(ctx context.Context, code Code) (*ShortURL, error)

	// IncrementHits adds one hit and returns the new count, or ErrNotFound.
	IncrementHits(ctx context.Context, code Code) (int64, error)

	// List returns a snapshot of every record in insertion order.
	List(ctx context.Context) ([]ShortURL, error)
}
