// Package store defines the contract between the query layer and the
// URI-addressed row backend: structured addresses, typed row decoding,
// drained-once row streams and the continuation-token side channel.
//
// The package carries no store implementation of its own; see
// internal/infrastructure/memstore and internal/infrastructure/mongostore.
package store

import "context"

// FieldMap describes the contents of an insert or update: an unordered,
// string-keyed map of column values.
type FieldMap map[string]any

// Filter is a caller-supplied row selector. The query layer treats it as
// opaque and passes it through verbatim; the store interprets it. Stores in
// this repository additionally honor FilterLimit and FilterAfter for paging.
type Filter map[string]any

// Filter keys with store-level meaning.
const (
	// FilterLimit caps the page size (int).
	FilterLimit = "limit"
	// FilterAfter resumes a scan from a continuation token (string).
	FilterAfter = "after"
)

// Token is an opaque continuation marker produced by the store and attached
// to a result set. A caller passes it back verbatim to resume the scan; a
// nil token means the scan is complete.
type Token string

// TokenKey is the fixed key under which a continuation token appears in a
// stream's trailing metadata bag.
const TokenKey = "continuation"

// SortOrder selects result ordering for a query.
type SortOrder string

// Supported sort orders.
const (
	SortNone     SortOrder = ""
	SortTimeAsc  SortOrder = "time-asc"
	SortTimeDesc SortOrder = "time-desc"
)

// RowStream is the sequential result of one query. It is a scoped resource:
// the consumer drains it exactly once and must Close it on every exit path.
//
// Extras returns the trailing metadata bag and is only meaningful after
// Next has returned false without a pending Err.
type RowStream interface {
	Next(ctx context.Context) bool
	Row() Row
	Err() error
	Extras() FieldMap
	Close(ctx context.Context) error
}

// Store is the abstract row backend consumed by the query services.
//
// Query opens a stream over the rows selected by filter at the given
// address. Implementations may return (nil, nil); consumers must treat a
// nil stream as a failure to open regardless of the error value.
//
// Insert creates one row and returns the created row's address, whose
// trailing segment is the generated numeric id. A nil address with a nil
// error is still a creation failure to consumers.
type Store interface {
	Query(ctx context.Context, addr Address, projection []string, filter Filter, sort SortOrder) (RowStream, error)
	Insert(ctx context.Context, addr Address, fields FieldMap) (*Address, error)
}
