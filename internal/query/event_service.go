package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/threadq/threadq/internal/domain/errs"
	"github.com/threadq/threadq/internal/domain/event"
	"github.com/threadq/threadq/internal/store"
)

// EventService executes group/participant event queries, reconstructing the
// typed event hierarchy from the heterogeneous event stream, and creates
// new events through nested addresses.
type EventService struct {
	store store.Store
	log   *slog.Logger
}

// NewEventService creates an EventService over the given store.
func NewEventService(st store.Store, log *slog.Logger) *EventService {
	return &EventService{store: st, log: log}
}

// QueryEvents runs one query against the unified event stream and
// dispatches each row to its variant by the event-type discriminator.
//
// Rows with an unrecognized discriminator are logged and dropped rather
// than aborting the whole query; the result is best-effort complete. A
// decode fault inside a recognized variant still fails the query.
func (s *EventService) QueryEvents(
	ctx context.Context,
	filter store.Filter,
) (*store.Token, []event.ThreadEvent, error) {
	return queryList(
		ctx,
		s.store,
		store.NewAddress(store.ResUnifiedEvent),
		nil,
		filter,
		store.SortTimeAsc,
		s.decodeEvent,
	)
}

// decodeEvent reconstructs one typed event from an event row.
func (s *EventService) decodeEvent(row store.Row) (event.ThreadEvent, bool, error) {
	discriminator, err := row.Int(ColEventType)
	if err != nil {
		return nil, false, err
	}
	if _, known := event.Type(discriminator).Segment(); !known {
		// Skip-on-unknown keeps the list query tolerant of event types
		// written by newer service versions.
		s.log.Warn("skipping event row with unknown discriminator",
			slog.Int("event_type", discriminator))
		return nil, false, nil
	}

	base, err := decodeEventBase(row)
	if err != nil {
		return nil, false, err
	}

	switch event.Type(discriminator) {
	case event.TypeAliasChanged:
		alias, aliasErr := row.String(ColAlias)
		if aliasErr != nil {
			return nil, false, aliasErr
		}
		return event.AliasChanged{Base: base, Alias: alias}, true, nil

	case event.TypeParticipantJoined:
		threadID, destination, memberErr := decodeMembershipFields(row)
		if memberErr != nil {
			return nil, false, memberErr
		}
		return event.ParticipantJoined{Base: base, ThreadID: threadID, Destination: destination}, true, nil

	case event.TypeParticipantLeft:
		threadID, destination, memberErr := decodeMembershipFields(row)
		if memberErr != nil {
			return nil, false, memberErr
		}
		return event.ParticipantLeft{Base: base, ThreadID: threadID, Destination: destination}, true, nil

	case event.TypeNameChanged:
		threadID, threadErr := row.Int64(ColThreadID)
		if threadErr != nil {
			return nil, false, threadErr
		}
		name, nameErr := row.String(ColName)
		if nameErr != nil {
			return nil, false, nameErr
		}
		return event.NameChanged{Base: base, ThreadID: threadID, Name: name}, true, nil

	case event.TypeIconChanged:
		threadID, threadErr := row.Int64(ColThreadID)
		if threadErr != nil {
			return nil, false, threadErr
		}
		icon, iconErr := row.OptString(ColIcon)
		if iconErr != nil {
			return nil, false, iconErr
		}
		return event.IconChanged{Base: base, ThreadID: threadID, Icon: icon}, true, nil

	default:
		// Unreachable; unknown discriminators are filtered above.
		return nil, false, nil
	}
}

func decodeEventBase(row store.Row) (event.Base, error) {
	timestamp, err := row.Int64(ColTimestamp)
	if err != nil {
		return event.Base{}, err
	}
	source, err := row.Int64(ColSource)
	if err != nil {
		return event.Base{}, err
	}
	return event.Base{Timestamp: timestamp, SourceID: source}, nil
}

func decodeMembershipFields(row store.Row) (threadID, destination int64, err error) {
	threadID, err = row.Int64(ColThreadID)
	if err != nil {
		return 0, 0, err
	}
	destination, err = row.Int64(ColDestination)
	if err != nil {
		return 0, 0, err
	}
	return threadID, destination, nil
}

// CreateGroupThreadEvent inserts one event under
// group-thread/{threadID}/{event-segment} and returns the generated event
// id parsed from the created row's address.
//
// Unlike the list query, an unknown discriminator here is a hard failure,
// as is a nil insert result or a non-positive generated id.
func (s *EventService) CreateGroupThreadEvent(
	ctx context.Context,
	eventType event.Type,
	timestamp int64,
	threadID int64,
	sourceParticipantID int64,
	extra store.FieldMap,
) (int64, error) {
	segment, ok := eventType.Segment()
	if !ok {
		return 0, fmt.Errorf("%w: no address segment for event type %d (thread %d, source %d)",
			errs.ErrRemote, eventType, threadID, sourceParticipantID)
	}

	fields := store.FieldMap{
		ColEventType: int(eventType),
		ColTimestamp: timestamp,
		ColSource:    sourceParticipantID,
	}
	for key, value := range extra {
		fields[key] = value
	}

	addr := store.NewAddress(store.ResGroupThread).ID(threadID).Segment(segment)
	created, err := s.store.Insert(ctx, addr, fields)
	if err != nil {
		return 0, fmt.Errorf("insert event type %d at %s: %w", eventType, addr, err)
	}
	if created == nil {
		return 0, fmt.Errorf("%w: insert at %s returned no address (thread %d, source %d)",
			errs.ErrRemote, addr, threadID, sourceParticipantID)
	}

	id, err := created.TrailingID()
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: insert at %s produced invalid event id %q (thread %d, source %d)",
			errs.ErrRemote, addr, created.String(), threadID, sourceParticipantID)
	}

	s.log.Debug("group thread event created",
		slog.Int64("event_id", id),
		slog.Int("event_type", int(eventType)),
		slog.Int64("thread_id", threadID))
	return id, nil
}

// ParticipantEventInsertionAddress is where an alias-change event is
// created. Alias changes hang off the participant, not a group thread.
func (s *EventService) ParticipantEventInsertionAddress(participantID int64) store.Address {
	return store.NewAddress(store.ResParticipant).ID(participantID).Segment(store.ResAliasChangeEvent)
}
