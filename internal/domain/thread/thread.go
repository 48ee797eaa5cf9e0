// Package thread defines the thread kinds a message can belong to.
package thread

// Kind discriminates one-to-one conversations from group threads. Group
// threads additionally own events; one-to-one threads do not.
type Kind int

// Thread kinds.
const (
	OneToOne Kind = 0
	Group    Kind = 1
)

// String returns the address segment for the thread kind.
func (k Kind) String() string {
	if k == Group {
		return "group-thread"
	}
	return "1-1-thread"
}
