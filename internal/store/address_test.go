package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadq/threadq/internal/store"
)

func TestAddress_Build(t *testing.T) {
	addr := store.NewAddress(store.ResGroupThread).ID(7).Segment(store.SegNameChanged)
	assert.Equal(t, "group-thread/7/name-changed", addr.String())
	assert.Equal(t, []string{"group-thread", "7", "name-changed"}, addr.Segments())
}

func TestAddress_Immutable(t *testing.T) {
	base := store.NewAddress(store.ResOutgoingMessage).ID(5)

	a := base.Segment(store.ResDelivery)
	b := base.ID(99)

	assert.Equal(t, "outgoing-message/5", base.String())
	assert.Equal(t, "outgoing-message/5/delivery", a.String())
	assert.Equal(t, "outgoing-message/5/99", b.String())
}

func TestAddress_TrailingID(t *testing.T) {
	id, err := store.ParseAddress("group-thread/7/name-changed/15").TrailingID()
	require.NoError(t, err)
	assert.Equal(t, int64(15), id)

	_, err = store.ParseAddress("group-thread/7/name-changed").TrailingID()
	require.Error(t, err)

	_, err = store.Address{}.TrailingID()
	require.Error(t, err)
}

func TestParseAddress_RoundTrip(t *testing.T) {
	for _, path := range []string{
		"unified-message",
		"1-1-thread/7/incoming-message/42",
		"participant/12/alias-change-event",
	} {
		assert.Equal(t, path, store.ParseAddress(path).String())
	}

	assert.Equal(t, "participant/3", store.ParseAddress("/participant/3/").String())
	assert.True(t, store.ParseAddress("").IsZero())
}

func TestAddress_IsZero(t *testing.T) {
	assert.True(t, store.Address{}.IsZero())
	assert.False(t, store.NewAddress(store.ResParticipant).IsZero())
}
