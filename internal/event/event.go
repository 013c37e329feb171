// Package event defines the content-change notifications delivered by an
// editor host. Events are ephemeral: they are produced by a host adapter,
// consumed by one classification pass, and never persisted.
package event

import "strings"

// Change is a single text change within an edit event. ReplacedLen is the
// length of the range the inserted text replaced; zero for a pure insertion.
type Change struct {
	Text        string
	ReplacedLen int
}

// Lines returns the number of lines the inserted text spans.
func (c Change) Lines() int {
	return strings.Count(c.Text, "\n") + 1
}

// Event is one content-change notification from the host: an ordered list
// of changes plus the owning document's identity and full current text.
type Event struct {
	Document     string
	Language     string
	Changes      []Change
	DocumentText string
}

// InsertedLen returns the combined inserted length across all changes.
func (e Event) InsertedLen() int {
	total := 0
	for _, c := range e.Changes {
		total += len(c.Text)
	}
	return total
}

// InsertedText returns the concatenation of all inserted text in change order.
func (e Event) InsertedText() string {
	var sb strings.Builder
	for _, c := range e.Changes {
		sb.WriteString(c.Text)
	}
	return sb.String()
}
