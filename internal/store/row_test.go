package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadq/threadq/internal/domain/errs"
	"github.com/threadq/threadq/internal/store"
)

func TestRow_TypedGetters(t *testing.T) {
	row := store.Row{
		"direction": 1,
		"count":     int32(3),
		"read_at":   int64(1700000000123),
		"alias":     "neo",
	}

	direction, err := row.Int("direction")
	require.NoError(t, err)
	assert.Equal(t, 1, direction)

	count, err := row.Int("count")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	readAt, err := row.Int64("read_at")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000123), readAt)

	alias, err := row.String("alias")
	require.NoError(t, err)
	assert.Equal(t, "neo", alias)
}

func TestRow_AbsentColumnIsADecodeFault(t *testing.T) {
	row := store.Row{"alias": "neo"}

	_, err := row.Int("direction")
	require.ErrorIs(t, err, errs.ErrNoColumn)

	_, err = row.Int64("read_at")
	require.ErrorIs(t, err, errs.ErrNoColumn)

	_, err = row.String("name")
	require.ErrorIs(t, err, errs.ErrNoColumn)
}

func TestRow_WrongTypeIsADecodeFault(t *testing.T) {
	row := store.Row{"alias": 7, "direction": "north"}

	_, err := row.String("alias")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrNoColumn)

	_, err = row.Int("direction")
	require.Error(t, err)
}

func TestRow_OptString(t *testing.T) {
	row := store.Row{"icon": "content://icons/3", "cleared": nil}

	icon, err := row.OptString("icon")
	require.NoError(t, err)
	require.NotNil(t, icon)
	assert.Equal(t, "content://icons/3", *icon)

	missing, err := row.OptString("absent")
	require.NoError(t, err)
	assert.Nil(t, missing)

	cleared, err := row.OptString("cleared")
	require.NoError(t, err)
	assert.Nil(t, cleared)

	_, err = row.OptString("icon2")
	require.NoError(t, err)

	row["bad"] = 9
	_, err = row.OptString("bad")
	require.Error(t, err)
}

func TestRow_Has(t *testing.T) {
	row := store.Row{"icon": "x", "cleared": nil}
	assert.True(t, row.Has("icon"))
	assert.False(t, row.Has("cleared"))
	assert.False(t, row.Has("other"))
}
