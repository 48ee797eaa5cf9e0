package query_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/threadq/threadq/internal/store"
)

// stubStream replays a fixed set of rows and records whether it was closed.
type stubStream struct {
	rows   []store.Row
	extras store.FieldMap
	err    error

	pos    int
	closed bool
}

func (s *stubStream) Next(context.Context) bool {
	if s.pos >= len(s.rows) {
		return false
	}
	s.pos++
	return true
}

func (s *stubStream) Row() store.Row         { return s.rows[s.pos-1] }
func (s *stubStream) Err() error             { return s.err }
func (s *stubStream) Extras() store.FieldMap { return s.extras }

func (s *stubStream) Close(context.Context) error {
	s.closed = true
	return nil
}

// stubStore hands out one canned stream (or failure) per Query call and
// records the addresses and filters it saw.
type stubStore struct {
	stream   store.RowStream
	queryErr error

	insertAddr *store.Address
	insertErr  error

	queriedAddrs   []string
	queriedFilters []store.Filter
	insertedAddrs  []string
	insertedFields []store.FieldMap
}

func (s *stubStore) Query(
	_ context.Context,
	addr store.Address,
	_ []string,
	filter store.Filter,
	_ store.SortOrder,
) (store.RowStream, error) {
	s.queriedAddrs = append(s.queriedAddrs, addr.String())
	s.queriedFilters = append(s.queriedFilters, filter)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.stream, nil
}

func (s *stubStore) Insert(_ context.Context, addr store.Address, fields store.FieldMap) (*store.Address, error) {
	s.insertedAddrs = append(s.insertedAddrs, addr.String())
	s.insertedFields = append(s.insertedFields, fields)
	return s.insertAddr, s.insertErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
