package store

import (
	"strconv"
	"strings"
)

// Resource segments understood by the store. Addresses are built from these
// constants plus numeric identifiers; free-form strings never enter a path.
const (
	ResUnifiedMessage   = "unified-message"
	ResUnifiedEvent     = "unified-event"
	ResIncomingMessage  = "incoming-message"
	ResOutgoingMessage  = "outgoing-message"
	ResGroupThread      = "group-thread"
	ResOneToOneThread   = "1-1-thread"
	ResDelivery         = "delivery"
	ResFileTransfer     = "file-transfer"
	ResParticipant      = "participant"
	ResAliasChangeEvent = "alias-change-event"

	SegParticipantJoined = "participant-joined"
	SegParticipantLeft   = "participant-left"
	SegNameChanged       = "name-changed"
	SegIconChanged       = "icon-changed"
)

// Address identifies a resource or sub-resource within the store as an
// authority-relative path. The zero value addresses nothing.
//
// Addresses are immutable; Segment and ID return extended copies, so a
// partially built address can be reused as a prefix.
type Address struct {
	segments []string
}

// NewAddress starts an address at a top-level resource.
func NewAddress(resource string) Address {
	return Address{segments: []string{resource}}
}

// ParseAddress rebuilds an address from its string form.
func ParseAddress(s string) Address {
	s = strings.Trim(s, "/")
	if s == "" {
		return Address{}
	}
	return Address{segments: strings.Split(s, "/")}
}

// Segment appends a literal sub-resource segment.
func (a Address) Segment(seg string) Address {
	out := make([]string, len(a.segments), len(a.segments)+1)
	copy(out, a.segments)
	return Address{segments: append(out, seg)}
}

// ID appends a numeric identifier segment.
func (a Address) ID(id int64) Address {
	return a.Segment(strconv.FormatInt(id, 10))
}

// String returns the "/"-joined path.
func (a Address) String() string {
	return strings.Join(a.segments, "/")
}

// Segments returns a copy of the path segments.
func (a Address) Segments() []string {
	out := make([]string, len(a.segments))
	copy(out, a.segments)
	return out
}

// IsZero reports whether the address has no segments.
func (a Address) IsZero() bool {
	return len(a.segments) == 0
}

// TrailingID parses the last path segment as a numeric identifier.
// Inserts return the created row's address with the generated id in this
// position.
func (a Address) TrailingID() (int64, error) {
	if len(a.segments) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(a.segments[len(a.segments)-1], 10, 64)
}
