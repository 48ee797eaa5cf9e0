// Package memstore provides a deterministic in-memory implementation of
// the store contract, used by unit tests and the mock wiring mode.
package memstore

import (
	"context"
	"strconv"
	"sync"

	"github.com/samber/lo"

	"github.com/threadq/threadq/internal/store"
)

const idColumn = "_id"

// Store keeps rows in per-address tables. Iteration order is insertion
// order; the continuation token is the decimal offset of the next unread
// row, attached to stream extras whenever a page fills up.
type Store struct {
	mu     sync.RWMutex
	tables map[string][]store.Row
	nextID int64

	// FailQueries makes Query return a nil stream with a nil error,
	// FailInserts makes Insert return a nil address with a nil error.
	// Both model the backend's "no result at all" failure mode.
	FailQueries bool
	FailInserts bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{tables: make(map[string][]store.Row)}
}

// Seed appends pre-built rows to the table at addr, bypassing id generation.
func (s *Store) Seed(addr store.Address, rows ...store.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := addr.String()
	s.tables[key] = append(s.tables[key], rows...)
}

// Len reports the number of rows in the table at addr.
func (s *Store) Len(addr store.Address) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[addr.String()])
}

// Query implements store.Store.
func (s *Store) Query(
	_ context.Context,
	addr store.Address,
	projection []string,
	filter store.Filter,
	_ store.SortOrder,
) (store.RowStream, error) {
	if s.FailQueries {
		return nil, nil
	}

	limit, offset, match := splitFilter(filter)

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := lo.Filter(s.tables[addr.String()], func(row store.Row, _ int) bool {
		return rowMatches(row, match)
	})

	if offset > len(matched) {
		offset = len(matched)
	}
	page := matched[offset:]
	extras := store.FieldMap{}
	if limit > 0 && len(page) > limit {
		page = page[:limit]
		extras[store.TokenKey] = strconv.Itoa(offset + limit)
	}

	rows := lo.Map(page, func(row store.Row, _ int) store.Row {
		return project(row, projection)
	})
	return &stream{rows: rows, extras: extras}, nil
}

// Insert implements store.Store.
func (s *Store) Insert(_ context.Context, addr store.Address, fields store.FieldMap) (*store.Address, error) {
	if s.FailInserts {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	row := store.Row{idColumn: s.nextID}
	for key, value := range fields {
		row[key] = value
	}
	key := addr.String()
	s.tables[key] = append(s.tables[key], row)

	return lo.ToPtr(addr.ID(s.nextID)), nil
}

// splitFilter separates paging directives from field-match terms.
func splitFilter(filter store.Filter) (limit, offset int, match store.Filter) {
	match = store.Filter{}
	for key, value := range filter {
		switch key {
		case store.FilterLimit:
			if n, ok := value.(int); ok {
				limit = n
			}
		case store.FilterAfter:
			if s, ok := value.(string); ok {
				offset, _ = strconv.Atoi(s)
			}
		default:
			match[key] = value
		}
	}
	return limit, offset, match
}

func rowMatches(row store.Row, match store.Filter) bool {
	for key, want := range match {
		if row[key] != want {
			return false
		}
	}
	return true
}

func project(row store.Row, projection []string) store.Row {
	if len(projection) == 0 {
		return row
	}
	out := store.Row{}
	for _, col := range projection {
		if value, ok := row[col]; ok {
			out[col] = value
		}
	}
	return out
}

// stream iterates a fixed page of rows.
type stream struct {
	rows   []store.Row
	extras store.FieldMap
	pos    int
	closed bool
}

// Next implements store.RowStream.
func (c *stream) Next(context.Context) bool {
	if c.closed || c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

// Row implements store.RowStream.
func (c *stream) Row() store.Row {
	return c.rows[c.pos-1]
}

// Err implements store.RowStream.
func (c *stream) Err() error { return nil }

// Extras implements store.RowStream.
func (c *stream) Extras() store.FieldMap { return c.extras }

// Close implements store.RowStream.
func (c *stream) Close(context.Context) error {
	c.closed = true
	return nil
}
