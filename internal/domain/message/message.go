// Package message contains the message-family domain types: direction,
// lazily loadable message references and the parameter bundles used to
// build insertion field maps.
package message

import "github.com/google/uuid"

// Direction discriminates incoming from outgoing messages. It is fixed at
// creation and never changes afterwards.
type Direction int

// Direction discriminator values as stored in the direction column.
const (
	Incoming Direction = 0
	Outgoing Direction = 1
)

// ParseDirection maps a raw discriminator column value to a Direction.
func ParseDirection(v int) (Direction, bool) {
	switch Direction(v) {
	case Incoming, Outgoing:
		return Direction(v), true
	default:
		return 0, false
	}
}

// String returns the address segment for the direction.
func (d Direction) String() string {
	if d == Incoming {
		return "incoming-message"
	}
	return "outgoing-message"
}

// Ref identifies a message in a list result without carrying its payload,
// so callers can load bodies lazily.
type Ref struct {
	Direction Direction
	ID        int64
}

// CreateParams are the generic fields shared by every new message,
// regardless of direction.
type CreateParams struct {
	GlobalID       string
	SubscriptionID string
	Status         int
	OriginatedAt   int64
}

// NewGlobalID mints a globally unique message identifier.
func NewGlobalID() string {
	return uuid.New().String()
}

// Message status values written through the generic status field.
const (
	StatusPending   = 0
	StatusSent      = 1
	StatusDelivered = 2
	StatusFailed    = 3
)

// FileTransferParams describe an attachment transfer hanging off a message.
type FileTransferParams struct {
	TransferID string
	SessionID  string
	ContentURI string
	PreviewURI string
	Width      int
	Height     int
	DurationMS int64
	Status     int
	Progress   int
}

// File transfer status values.
const (
	TransferQueued    = 0
	TransferActive    = 1
	TransferComplete  = 2
	TransferFailed    = 3
	TransferCancelled = 4
)
