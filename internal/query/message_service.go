package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/threadq/threadq/internal/domain/errs"
	"github.com/threadq/threadq/internal/domain/message"
	"github.com/threadq/threadq/internal/domain/thread"
	"github.com/threadq/threadq/internal/store"
)

// MessageService executes message-family queries and builds the addresses
// used for message, delivery and file-transfer writes.
type MessageService struct {
	store store.Store
	log   *slog.Logger
}

// NewMessageService creates a MessageService over the given store.
func NewMessageService(st store.Store, log *slog.Logger) *MessageService {
	return &MessageService{store: st, log: log}
}

// QueryMessages runs one query against the unified message address and
// returns a lazily loadable reference per row, tagged with the row's
// direction discriminator, plus the continuation token for the next page.
func (s *MessageService) QueryMessages(
	ctx context.Context,
	filter store.Filter,
) (*store.Token, []message.Ref, error) {
	token, refs, err := queryList(
		ctx,
		s.store,
		store.NewAddress(store.ResUnifiedMessage),
		[]string{ColID, ColDirection},
		filter,
		store.SortTimeDesc,
		decodeMessageRef,
	)
	if err != nil {
		return nil, nil, err
	}
	s.log.Debug("message query drained", slog.Int("rows", len(refs)), slog.Bool("more", token != nil))
	return token, refs, nil
}

func decodeMessageRef(row store.Row) (message.Ref, bool, error) {
	raw, err := row.Int(ColDirection)
	if err != nil {
		return message.Ref{}, false, err
	}
	direction, ok := message.ParseDirection(raw)
	if !ok {
		return message.Ref{}, false, fmt.Errorf("unknown message direction %d", raw)
	}
	id, err := row.Int64(ColID)
	if err != nil {
		return message.Ref{}, false, err
	}
	return message.Ref{Direction: direction, ID: id}, true, nil
}

// GenericMessageFields builds the insertion field map shared by every new
// message. Pure; values land under their documented keys unmodified.
func (s *MessageService) GenericMessageFields(threadID int64, params message.CreateParams) store.FieldMap {
	return store.FieldMap{
		ColThreadID:       threadID,
		ColGlobalID:       params.GlobalID,
		ColSubscriptionID: params.SubscriptionID,
		ColStatus:         params.Status,
		ColOriginatedAt:   params.OriginatedAt,
	}
}

// InsertionAddress is where a new message of the given direction is created.
func (s *MessageService) InsertionAddress(incoming bool) store.Address {
	return store.NewAddress(directionResource(incoming))
}

// UpdateAddress addresses one existing message for status updates.
func (s *MessageService) UpdateAddress(messageID int64, incoming bool) store.Address {
	return store.NewAddress(directionResource(incoming)).ID(messageID)
}

// DeletionAddress addresses one message for deletion, nesting the owning
// thread's kind and the message direction before the id:
//
//	{group-thread|1-1-thread}/{threadID}/{incoming|outgoing}/{messageID}
func (s *MessageService) DeletionAddress(messageID int64, incoming bool, threadID int64, groupThread bool) store.Address {
	kind := thread.OneToOne
	if groupThread {
		kind = thread.Group
	}
	return store.NewAddress(kind.String()).
		ID(threadID).
		Segment(directionResource(incoming)).
		ID(messageID)
}

func directionResource(incoming bool) string {
	if incoming {
		return store.ResIncomingMessage
	}
	return store.ResOutgoingMessage
}

// QueryDeliveryParticipants lists the delivery targets recorded for one
// outgoing message, one participant id per delivery row, in stream order.
func (s *MessageService) QueryDeliveryParticipants(ctx context.Context, messageID int64) ([]int64, error) {
	_, ids, err := queryList(
		ctx,
		s.store,
		s.deliveryRootAddress(messageID),
		[]string{ColParticipantID},
		nil,
		store.SortNone,
		func(row store.Row) (int64, bool, error) {
			id, decodeErr := row.Int64(ColParticipantID)
			if decodeErr != nil {
				return 0, false, decodeErr
			}
			return id, true, nil
		},
	)
	return ids, err
}

// DeliveryAddress addresses the delivery record of one message/participant pair.
func (s *MessageService) DeliveryAddress(messageID, participantID int64) store.Address {
	return s.deliveryRootAddress(messageID).ID(participantID)
}

func (s *MessageService) deliveryRootAddress(messageID int64) store.Address {
	return store.NewAddress(store.ResOutgoingMessage).ID(messageID).Segment(store.ResDelivery)
}

// ReadDeliveryField opens the single-row stream for one delivery record and
// returns the named status field as a 64-bit integer. A missing row is
// ErrNotFound, as distinct from a stream that could not be opened.
func (s *MessageService) ReadDeliveryField(
	ctx context.Context,
	messageID, participantID int64,
	field string,
) (int64, error) {
	addr := s.DeliveryAddress(messageID, participantID)

	stream, err := s.store.Query(ctx, addr, []string{field}, nil, store.SortNone)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errs.ErrQueryFailed, addr, err)
	}
	if stream == nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrQueryFailed, addr)
	}
	defer stream.Close(ctx)

	if !stream.Next(ctx) {
		if iterErr := stream.Err(); iterErr != nil {
			return 0, fmt.Errorf("iterate %s: %w", addr, iterErr)
		}
		return 0, fmt.Errorf("%w: delivery %d/%d", errs.ErrNotFound, messageID, participantID)
	}
	value, err := stream.Row().Int64(field)
	if err != nil {
		return 0, fmt.Errorf("decode row at %s: %w", addr, err)
	}
	return value, nil
}

// FileTransferFields builds the insertion field map for a file transfer.
// Pure; values land under their documented keys unmodified.
func (s *MessageService) FileTransferFields(params message.FileTransferParams) store.FieldMap {
	return store.FieldMap{
		ColTransferID: params.TransferID,
		ColSessionID:  params.SessionID,
		ColContentURI: params.ContentURI,
		ColPreviewURI: params.PreviewURI,
		ColWidth:      params.Width,
		ColHeight:     params.Height,
		ColDurationMS: params.DurationMS,
		ColStatus:     params.Status,
		ColProgress:   params.Progress,
	}
}

// FileTransferInsertionAddress is where a transfer attached to a message is created.
func (s *MessageService) FileTransferInsertionAddress(messageID int64) store.Address {
	return store.NewAddress(store.ResUnifiedMessage).ID(messageID).Segment(store.ResFileTransfer)
}

// FileTransferUpdateAddress addresses one transfer part for progress updates.
func (s *MessageService) FileTransferUpdateAddress(partID int64) store.Address {
	return store.NewAddress(store.ResFileTransfer).ID(partID)
}
