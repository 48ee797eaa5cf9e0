// Package service owns the process-facing boundary around the query
// services. Capability checks happen here, once per call, before any store
// traffic; the query services themselves never re-check permissions.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/threadq/threadq/internal/domain/errs"
	"github.com/threadq/threadq/internal/domain/event"
	"github.com/threadq/threadq/internal/domain/message"
	"github.com/threadq/threadq/internal/query"
	"github.com/threadq/threadq/internal/store"
)

// Operation names a gated entry point.
type Operation string

// Gated operations.
const (
	OpQueryMessages     Operation = "query-messages"
	OpQueryParticipants Operation = "query-participants"
	OpQueryEvents       Operation = "query-events"
	OpCreateEvent       Operation = "create-event"
	OpReadDelivery      Operation = "read-delivery"
)

// Gate decides whether a caller may perform an operation. It is injected by
// whoever owns the process boundary; the default allows everything.
type Gate func(caller string, op Operation) bool

// AllowAll is the default gate.
func AllowAll(string, Operation) bool { return true }

// Boundary bundles the three query services behind one capability gate.
type Boundary struct {
	gate         Gate
	messages     *query.MessageService
	participants *query.ParticipantService
	events       *query.EventService
}

// NewBoundary wires the query services over one store. A nil gate means
// AllowAll.
func NewBoundary(st store.Store, gate Gate, log *slog.Logger) *Boundary {
	if gate == nil {
		gate = AllowAll
	}
	return &Boundary{
		gate:         gate,
		messages:     query.NewMessageService(st, log),
		participants: query.NewParticipantService(st, log),
		events:       query.NewEventService(st, log),
	}
}

// Messages exposes the ungated message service for in-process callers that
// have already passed the boundary.
func (b *Boundary) Messages() *query.MessageService { return b.messages }

// Participants exposes the ungated participant service.
func (b *Boundary) Participants() *query.ParticipantService { return b.participants }

// Events exposes the ungated event service.
func (b *Boundary) Events() *query.EventService { return b.events }

func (b *Boundary) check(caller string, op Operation) error {
	if !b.gate(caller, op) {
		return fmt.Errorf("%w: caller %q, operation %s", errs.ErrPermissionDenied, caller, op)
	}
	return nil
}

// QueryMessages gates and delegates a message list query.
func (b *Boundary) QueryMessages(
	ctx context.Context,
	caller string,
	filter store.Filter,
) (*store.Token, []message.Ref, error) {
	if err := b.check(caller, OpQueryMessages); err != nil {
		return nil, nil, err
	}
	return b.messages.QueryMessages(ctx, filter)
}

// QueryParticipants gates and delegates a participant list query.
func (b *Boundary) QueryParticipants(
	ctx context.Context,
	caller string,
	filter store.Filter,
) (*store.Token, []int64, error) {
	if err := b.check(caller, OpQueryParticipants); err != nil {
		return nil, nil, err
	}
	return b.participants.QueryParticipants(ctx, filter)
}

// QueryEvents gates and delegates an event list query.
func (b *Boundary) QueryEvents(
	ctx context.Context,
	caller string,
	filter store.Filter,
) (*store.Token, []event.ThreadEvent, error) {
	if err := b.check(caller, OpQueryEvents); err != nil {
		return nil, nil, err
	}
	return b.events.QueryEvents(ctx, filter)
}

// CreateGroupThreadEvent gates and delegates event creation.
func (b *Boundary) CreateGroupThreadEvent(
	ctx context.Context,
	caller string,
	eventType event.Type,
	timestamp, threadID, sourceParticipantID int64,
	extra store.FieldMap,
) (int64, error) {
	if err := b.check(caller, OpCreateEvent); err != nil {
		return 0, err
	}
	return b.events.CreateGroupThreadEvent(ctx, eventType, timestamp, threadID, sourceParticipantID, extra)
}

// ReadDeliveryField gates and delegates a single delivery-field read.
func (b *Boundary) ReadDeliveryField(
	ctx context.Context,
	caller string,
	messageID, participantID int64,
	field string,
) (int64, error) {
	if err := b.check(caller, OpReadDelivery); err != nil {
		return 0, err
	}
	return b.messages.ReadDeliveryField(ctx, messageID, participantID, field)
}
