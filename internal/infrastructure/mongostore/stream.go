package mongostore

import (
	"context"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/threadq/threadq/internal/store"
)

// stream adapts a mongo cursor to the store.RowStream contract. The cursor
// was opened with limit+1 rows; the stream hands out at most limit and uses
// the extra row only to decide whether a continuation token belongs in the
// trailing metadata.
type stream struct {
	cursor *mongo.Cursor
	limit  int

	row    store.Row
	seen   int
	lastID int64
	err    error
	extras store.FieldMap
}

func newStream(cursor *mongo.Cursor, limit int) *stream {
	return &stream{cursor: cursor, limit: limit, extras: store.FieldMap{}}
}

// Next implements store.RowStream.
func (c *stream) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	if c.limit > 0 && c.seen == c.limit {
		// Page is full. If the cursor still has the sentinel row, there is
		// another page; resume from the last id handed out.
		if c.cursor.Next(ctx) {
			c.extras[store.TokenKey] = strconv.FormatInt(c.lastID, 10)
		}
		c.err = c.cursor.Err()
		return false
	}

	if !c.cursor.Next(ctx) {
		c.err = c.cursor.Err()
		return false
	}

	var doc bson.M
	if err := c.cursor.Decode(&doc); err != nil {
		c.err = err
		return false
	}
	c.row = store.Row(doc)
	if id, ok := rowID(doc); ok {
		c.lastID = id
	}
	c.seen++
	return true
}

func rowID(doc bson.M) (int64, bool) {
	switch v := doc[fieldID].(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// Row implements store.RowStream.
func (c *stream) Row() store.Row { return c.row }

// Err implements store.RowStream.
func (c *stream) Err() error { return c.err }

// Extras implements store.RowStream.
func (c *stream) Extras() store.FieldMap { return c.extras }

// Close implements store.RowStream.
func (c *stream) Close(ctx context.Context) error {
	return c.cursor.Close(ctx)
}
