// Package mongostore implements the store contract on MongoDB. Resource
// addresses map onto a fixed set of collections; generated row ids come
// from a counters collection so that created addresses carry monotonic
// numeric trailing segments.
package mongostore

import (
	"context"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/threadq/threadq/internal/domain/event"
	"github.com/threadq/threadq/internal/domain/message"
	"github.com/threadq/threadq/internal/store"
)

// Collection names.
const (
	collMessages      = "messages"
	collParticipants  = "participants"
	collEvents        = "events"
	collDeliveries    = "deliveries"
	collFileTransfers = "file_transfers"
	collCounters      = "counters"
)

// Scope field names written by address resolution.
const (
	fieldID          = "_id"
	fieldDirection   = "direction"
	fieldThreadID    = "thread_id"
	fieldMessageID   = "message_id"
	fieldParticipant = "participant_id"
	fieldEventType   = "event_type"
	fieldSource      = "source_participant"
)

// Store is a MongoDB-backed row store.
type Store struct {
	db *mongo.Database
}

// New creates a Store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// target is the outcome of resolving an address: the collection holding the
// resource family plus the scope fields the address segments pin down.
type target struct {
	collection string
	scope      bson.M
}

// resolve maps an address onto its collection and scope. Unknown shapes are
// an error; the address scheme is closed.
func resolve(addr store.Address) (target, error) {
	segs := addr.Segments()
	if len(segs) == 0 {
		return target{}, fmt.Errorf("empty address")
	}

	switch segs[0] {
	case store.ResUnifiedMessage:
		return resolveUnifiedMessage(segs)
	case store.ResIncomingMessage:
		return resolveDirectedMessage(segs, int(message.Incoming))
	case store.ResOutgoingMessage:
		return resolveDirectedMessage(segs, int(message.Outgoing))
	case store.ResUnifiedEvent:
		if len(segs) == 1 {
			return target{collection: collEvents, scope: bson.M{}}, nil
		}
	case store.ResParticipant:
		return resolveParticipant(segs)
	case store.ResGroupThread, store.ResOneToOneThread:
		return resolveThread(segs)
	case store.ResFileTransfer:
		if len(segs) == 2 {
			id, err := parseID(segs[1])
			if err != nil {
				return target{}, err
			}
			return target{collection: collFileTransfers, scope: bson.M{fieldID: id}}, nil
		}
	}
	return target{}, fmt.Errorf("unresolvable address: %s", addr)
}

func resolveUnifiedMessage(segs []string) (target, error) {
	switch len(segs) {
	case 1:
		return target{collection: collMessages, scope: bson.M{}}, nil
	case 2:
		id, err := parseID(segs[1])
		if err != nil {
			return target{}, err
		}
		return target{collection: collMessages, scope: bson.M{fieldID: id}}, nil
	case 3:
		if segs[2] == store.ResFileTransfer {
			id, err := parseID(segs[1])
			if err != nil {
				return target{}, err
			}
			return target{collection: collFileTransfers, scope: bson.M{fieldMessageID: id}}, nil
		}
	}
	return target{}, fmt.Errorf("unresolvable message address: %v", segs)
}

func resolveDirectedMessage(segs []string, direction int) (target, error) {
	switch len(segs) {
	case 1:
		return target{collection: collMessages, scope: bson.M{fieldDirection: direction}}, nil
	case 2:
		id, err := parseID(segs[1])
		if err != nil {
			return target{}, err
		}
		return target{collection: collMessages, scope: bson.M{fieldDirection: direction, fieldID: id}}, nil
	case 3, 4:
		if segs[2] != store.ResDelivery {
			break
		}
		id, err := parseID(segs[1])
		if err != nil {
			return target{}, err
		}
		scope := bson.M{fieldMessageID: id}
		if len(segs) == 4 {
			pid, pidErr := parseID(segs[3])
			if pidErr != nil {
				return target{}, pidErr
			}
			scope[fieldParticipant] = pid
		}
		return target{collection: collDeliveries, scope: scope}, nil
	}
	return target{}, fmt.Errorf("unresolvable message address: %v", segs)
}

func resolveParticipant(segs []string) (target, error) {
	switch len(segs) {
	case 1:
		return target{collection: collParticipants, scope: bson.M{}}, nil
	case 2:
		id, err := parseID(segs[1])
		if err != nil {
			return target{}, err
		}
		return target{collection: collParticipants, scope: bson.M{fieldID: id}}, nil
	case 3:
		if segs[2] == store.ResAliasChangeEvent {
			id, err := parseID(segs[1])
			if err != nil {
				return target{}, err
			}
			return target{
				collection: collEvents,
				scope:      bson.M{fieldEventType: int(event.TypeAliasChanged), fieldSource: id},
			}, nil
		}
	}
	return target{}, fmt.Errorf("unresolvable participant address: %v", segs)
}

func resolveThread(segs []string) (target, error) {
	if len(segs) != 3 {
		return target{}, fmt.Errorf("unresolvable thread address: %v", segs)
	}
	threadID, err := parseID(segs[1])
	if err != nil {
		return target{}, err
	}
	eventType, ok := eventTypeForSegment(segs[2])
	if !ok {
		return target{}, fmt.Errorf("unknown thread event segment: %s", segs[2])
	}
	return target{
		collection: collEvents,
		scope:      bson.M{fieldThreadID: threadID, fieldEventType: eventType},
	}, nil
}

func eventTypeForSegment(seg string) (int, bool) {
	for _, t := range []event.Type{
		event.TypeParticipantJoined,
		event.TypeParticipantLeft,
		event.TypeNameChanged,
		event.TypeIconChanged,
	} {
		if s, _ := t.Segment(); s == seg {
			return int(t), true
		}
	}
	return 0, false
}

func parseID(seg string) (int64, error) {
	id, err := strconv.ParseInt(seg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric id segment %q: %w", seg, err)
	}
	return id, nil
}

// Query implements store.Store.
func (s *Store) Query(
	ctx context.Context,
	addr store.Address,
	projection []string,
	filter store.Filter,
	sort store.SortOrder,
) (store.RowStream, error) {
	tgt, err := resolve(addr)
	if err != nil {
		return nil, err
	}

	limit, after, match := splitFilter(filter)
	descending := sort == store.SortTimeDesc

	mongoFilter := bson.M{}
	for key, value := range tgt.scope {
		mongoFilter[key] = value
	}
	for key, value := range match {
		mongoFilter[key] = value
	}
	if after != 0 {
		if descending {
			mongoFilter[fieldID] = bson.M{"$lt": after}
		} else {
			mongoFilter[fieldID] = bson.M{"$gt": after}
		}
	}

	order := 1
	if descending {
		order = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: fieldID, Value: order}})
	if len(projection) > 0 {
		proj := bson.D{}
		for _, col := range projection {
			proj = append(proj, bson.E{Key: col, Value: 1})
		}
		opts = opts.SetProjection(proj)
	}
	if limit > 0 {
		// One extra row tells the stream whether to attach a token.
		opts = opts.SetLimit(int64(limit) + 1)
	}

	cursor, err := s.db.Collection(tgt.collection).Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", addr, err)
	}
	return newStream(cursor, limit), nil
}

// Insert implements store.Store.
func (s *Store) Insert(ctx context.Context, addr store.Address, fields store.FieldMap) (*store.Address, error) {
	tgt, err := resolve(addr)
	if err != nil {
		return nil, err
	}

	id, err := s.nextID(ctx, tgt.collection)
	if err != nil {
		return nil, fmt.Errorf("allocate id for %s: %w", addr, err)
	}

	doc := bson.M{fieldID: id}
	for key, value := range fields {
		doc[key] = value
	}
	for key, value := range tgt.scope {
		doc[key] = value
	}

	if _, err = s.db.Collection(tgt.collection).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert at %s: %w", addr, err)
	}

	created := addr.ID(id)
	return &created, nil
}

// nextID allocates the next monotonic id for a collection via an atomic
// upserted counter.
func (s *Store) nextID(ctx context.Context, collection string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(collCounters).FindOneAndUpdate(
		ctx,
		bson.M{fieldID: collection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func splitFilter(filter store.Filter) (limit int, after int64, match store.Filter) {
	match = store.Filter{}
	for key, value := range filter {
		switch key {
		case store.FilterLimit:
			if n, ok := value.(int); ok {
				limit = n
			}
		case store.FilterAfter:
			if s, ok := value.(string); ok {
				after, _ = strconv.ParseInt(s, 10, 64)
			}
		default:
			match[key] = value
		}
	}
	return limit, after, match
}
