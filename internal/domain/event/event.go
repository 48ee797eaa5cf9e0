// Package event defines the closed hierarchy of thread and participant
// events reconstructed from the store's heterogeneous event stream.
//
// The hierarchy is a sum type over exactly five variants, keyed by an
// integer discriminator persisted in the event row. Adding a variant means
// extending the discriminator set, the Segment mapping and the decoder
// together; there is no open-ended dispatch.
package event

// Type is the integer event discriminator persisted in the event row.
type Type int

// Event type discriminator values.
const (
	TypeAliasChanged      Type = 0
	TypeParticipantJoined Type = 1
	TypeParticipantLeft   Type = 2
	TypeNameChanged       Type = 3
	TypeIconChanged       Type = 4
)

// Segment returns the address segment used when creating an event of this
// type, and false for a discriminator outside the known set. The mapping is
// total over the five variants and closed to everything else.
func (t Type) Segment() (string, bool) {
	switch t {
	case TypeAliasChanged:
		return "alias-change-event", true
	case TypeParticipantJoined:
		return "participant-joined", true
	case TypeParticipantLeft:
		return "participant-left", true
	case TypeNameChanged:
		return "name-changed", true
	case TypeIconChanged:
		return "icon-changed", true
	default:
		return "", false
	}
}

// ThreadEvent is implemented by the five event variants and nothing else.
type ThreadEvent interface {
	Type() Type
	When() int64
	Source() int64
}

// Base carries the fields common to every variant: the occurrence
// timestamp and the participant the event originated from.
type Base struct {
	Timestamp int64
	SourceID  int64
}

// When returns the event timestamp.
func (b Base) When() int64 { return b.Timestamp }

// Source returns the originating participant id.
func (b Base) Source() int64 { return b.SourceID }

// AliasChanged records a participant changing their alias. Alias changes
// are participant-scoped, not group-scoped, so there is no thread id.
type AliasChanged struct {
	Base

	Alias string
}

// Type implements ThreadEvent.
func (AliasChanged) Type() Type { return TypeAliasChanged }

// ParticipantJoined records a participant entering a group thread.
type ParticipantJoined struct {
	Base

	ThreadID    int64
	Destination int64
}

// Type implements ThreadEvent.
func (ParticipantJoined) Type() Type { return TypeParticipantJoined }

// ParticipantLeft records a participant leaving a group thread.
type ParticipantLeft struct {
	Base

	ThreadID    int64
	Destination int64
}

// Type implements ThreadEvent.
func (ParticipantLeft) Type() Type { return TypeParticipantLeft }

// NameChanged records a group thread being renamed.
type NameChanged struct {
	Base

	ThreadID int64
	Name     string
}

// Type implements ThreadEvent.
func (NameChanged) Type() Type { return TypeNameChanged }

// IconChanged records a group thread's icon being replaced. The icon
// reference is optional; nil means the icon was cleared.
type IconChanged struct {
	Base

	ThreadID int64
	Icon     *string
}

// Type implements ThreadEvent.
func (IconChanged) Type() Type { return TypeIconChanged }
