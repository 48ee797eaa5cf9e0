package query

import (
	"context"
	"log/slog"

	"github.com/threadq/threadq/internal/store"
)

// ParticipantService executes participant-family queries and builds
// participant addresses.
type ParticipantService struct {
	store store.Store
	log   *slog.Logger
}

// NewParticipantService creates a ParticipantService over the given store.
func NewParticipantService(st store.Store, log *slog.Logger) *ParticipantService {
	return &ParticipantService{store: st, log: log}
}

// QueryParticipants runs one query against the participant address and
// returns one id per row plus the continuation token for the next page.
// Same pagination and failure contract as the message query.
func (s *ParticipantService) QueryParticipants(
	ctx context.Context,
	filter store.Filter,
) (*store.Token, []int64, error) {
	token, ids, err := queryList(
		ctx,
		s.store,
		store.NewAddress(store.ResParticipant),
		[]string{ColID},
		filter,
		store.SortNone,
		func(row store.Row) (int64, bool, error) {
			id, decodeErr := row.Int64(ColID)
			if decodeErr != nil {
				return 0, false, decodeErr
			}
			return id, true, nil
		},
	)
	if err != nil {
		return nil, nil, err
	}
	s.log.Debug("participant query drained", slog.Int("rows", len(ids)), slog.Bool("more", token != nil))
	return token, ids, nil
}

// ParticipantAddress addresses one participant record.
func (s *ParticipantService) ParticipantAddress(participantID int64) store.Address {
	return store.NewAddress(store.ResParticipant).ID(participantID)
}
