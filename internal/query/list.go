// Package query turns opaque filter requests into single store round trips
// and maps the resulting row streams into typed result sets. Each service
// method performs exactly one query, drains the stream fully before
// returning, and propagates the store's continuation token verbatim.
package query

import (
	"context"
	"fmt"

	"github.com/threadq/threadq/internal/domain/errs"
	"github.com/threadq/threadq/internal/store"
)

// decodeFunc maps one row to a result value. Returning keep=false drops the
// row without failing the query; a non-nil error aborts it.
type decodeFunc[T any] func(store.Row) (value T, keep bool, err error)

// queryList performs the shared list-query discipline: open the stream,
// fail on a nil stream, drain it exactly once through decode, check the
// stream error, and read the trailing continuation token. The stream is
// released on every exit path.
//
// The returned token is nil when the stream metadata carries none, which
// signals the end of pages.
func queryList[T any](
	ctx context.Context,
	st store.Store,
	addr store.Address,
	projection []string,
	filter store.Filter,
	sort store.SortOrder,
	decode decodeFunc[T],
) (*store.Token, []T, error) {
	stream, err := st.Query(ctx, addr, projection, filter, sort)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", errs.ErrQueryFailed, addr, err)
	}
	if stream == nil {
		return nil, nil, fmt.Errorf("%w: %s", errs.ErrQueryFailed, addr)
	}
	defer stream.Close(ctx)

	var results []T
	for stream.Next(ctx) {
		value, keep, decodeErr := decode(stream.Row())
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("decode row at %s: %w", addr, decodeErr)
		}
		if keep {
			results = append(results, value)
		}
	}
	if err = stream.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate %s: %w", addr, err)
	}

	return continuationToken(stream.Extras()), results, nil
}

// continuationToken extracts the token from a stream's trailing metadata
// bag, if the store attached one.
func continuationToken(extras store.FieldMap) *store.Token {
	if extras == nil {
		return nil
	}
	raw, ok := extras[store.TokenKey]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil
	}
	token := store.Token(s)
	return &token
}
