package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadq/threadq/internal/infrastructure/memstore"
	"github.com/threadq/threadq/internal/store"
)

func drain(t *testing.T, stream store.RowStream) ([]store.Row, store.FieldMap) {
	t.Helper()
	var rows []store.Row
	for stream.Next(context.Background()) {
		rows = append(rows, stream.Row())
	}
	require.NoError(t, stream.Err())
	extras := stream.Extras()
	require.NoError(t, stream.Close(context.Background()))
	return rows, extras
}

func TestInsert_GeneratesMonotonicIDs(t *testing.T) {
	st := memstore.New()
	addr := store.NewAddress(store.ResParticipant)

	first, err := st.Insert(context.Background(), addr, store.FieldMap{"alias": "neo"})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "participant/1", first.String())

	second, err := st.Insert(context.Background(), addr, store.FieldMap{"alias": "trinity"})
	require.NoError(t, err)
	assert.Equal(t, "participant/2", second.String())

	assert.Equal(t, 2, st.Len(addr))
}

func TestQuery_FilterMatchAndProjection(t *testing.T) {
	st := memstore.New()
	addr := store.NewAddress(store.ResUnifiedMessage)
	st.Seed(addr,
		store.Row{"_id": int64(1), "direction": 0, "thread_id": int64(7), "global_id": "a"},
		store.Row{"_id": int64(2), "direction": 1, "thread_id": int64(8), "global_id": "b"},
		store.Row{"_id": int64(3), "direction": 0, "thread_id": int64(7), "global_id": "c"},
	)

	stream, err := st.Query(
		context.Background(), addr,
		[]string{"_id", "direction"},
		store.Filter{"thread_id": int64(7)},
		store.SortNone,
	)
	require.NoError(t, err)
	require.NotNil(t, stream)

	rows, extras := drain(t, stream)
	require.Len(t, rows, 2)
	assert.Equal(t, store.Row{"_id": int64(1), "direction": 0}, rows[0])
	assert.Equal(t, store.Row{"_id": int64(3), "direction": 0}, rows[1])
	assert.Empty(t, extras)
}

func TestQuery_PagingTokens(t *testing.T) {
	st := memstore.New()
	addr := store.NewAddress(store.ResParticipant)
	for i := int64(1); i <= 5; i++ {
		st.Seed(addr, store.Row{"_id": i})
	}

	// First page fills up, so a token is attached.
	stream, err := st.Query(context.Background(), addr, nil, store.Filter{store.FilterLimit: 2}, store.SortNone)
	require.NoError(t, err)
	rows, extras := drain(t, stream)
	require.Len(t, rows, 2)
	token, ok := extras[store.TokenKey].(string)
	require.True(t, ok, "full page must carry a continuation token")

	// Resuming yields the next rows.
	stream, err = st.Query(context.Background(), addr, nil,
		store.Filter{store.FilterLimit: 2, store.FilterAfter: token}, store.SortNone)
	require.NoError(t, err)
	rows, extras = drain(t, stream)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0]["_id"])
	token, ok = extras[store.TokenKey].(string)
	require.True(t, ok)

	// Final partial page carries no token.
	stream, err = st.Query(context.Background(), addr, nil,
		store.Filter{store.FilterLimit: 2, store.FilterAfter: token}, store.SortNone)
	require.NoError(t, err)
	rows, extras = drain(t, stream)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5), rows[0]["_id"])
	_, ok = extras[store.TokenKey]
	assert.False(t, ok, "exhausted scan must not carry a token")
}

func TestQuery_ExactPageBoundaryEndsWithoutToken(t *testing.T) {
	st := memstore.New()
	addr := store.NewAddress(store.ResParticipant)
	st.Seed(addr, store.Row{"_id": int64(1)}, store.Row{"_id": int64(2)})

	stream, err := st.Query(context.Background(), addr, nil, store.Filter{store.FilterLimit: 2}, store.SortNone)
	require.NoError(t, err)
	rows, extras := drain(t, stream)
	require.Len(t, rows, 2)
	_, ok := extras[store.TokenKey]
	assert.False(t, ok)
}

func TestFailureInjection(t *testing.T) {
	st := memstore.New()
	st.FailQueries = true
	st.FailInserts = true

	stream, err := st.Query(context.Background(), store.NewAddress(store.ResParticipant), nil, nil, store.SortNone)
	require.NoError(t, err)
	assert.Nil(t, stream)

	addr, err := st.Insert(context.Background(), store.NewAddress(store.ResParticipant), nil)
	require.NoError(t, err)
	assert.Nil(t, addr)
}

func TestStream_ClosedStreamStopsIterating(t *testing.T) {
	st := memstore.New()
	addr := store.NewAddress(store.ResParticipant)
	st.Seed(addr, store.Row{"_id": int64(1)}, store.Row{"_id": int64(2)})

	stream, err := st.Query(context.Background(), addr, nil, nil, store.SortNone)
	require.NoError(t, err)
	require.True(t, stream.Next(context.Background()))
	require.NoError(t, stream.Close(context.Background()))
	assert.False(t, stream.Next(context.Background()))
}
