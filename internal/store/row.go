package store

import (
	"fmt"

	"github.com/threadq/threadq/internal/domain/errs"
)

// Row is one result of a store query: an extensible string-keyed record.
// Columns are typed at read time; a missing column or a value of the wrong
// dynamic type is a decode fault.
type Row map[string]any

// Int reads an integer column.
func (r Row) Int(col string) (int, error) {
	v, ok := r[col]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errs.ErrNoColumn, col)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("column %s is not an integer: %T", col, v)
	}
}

// Int64 reads a 64-bit integer column.
func (r Row) Int64(col string) (int64, error) {
	v, ok := r[col]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errs.ErrNoColumn, col)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("column %s is not an integer: %T", col, v)
	}
}

// String reads a string column.
func (r Row) String(col string) (string, error) {
	v, ok := r[col]
	if !ok {
		return "", fmt.Errorf("%w: %s", errs.ErrNoColumn, col)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("column %s is not a string: %T", col, v)
	}
	return s, nil
}

// OptString reads a string column that may legitimately be absent or null.
// Absence is not a fault here; a present non-string value still is.
func (r Row) OptString(col string) (*string, error) {
	v, ok := r[col]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("column %s is not a string: %T", col, v)
	}
	return &s, nil
}

// Has reports whether the row carries a non-nil value for the column.
func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}
