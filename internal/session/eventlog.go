package session

import (
	"slices"

	"quizlive/internal/protocol"
)

// EventLog is the append-only diagnostic record of every protocol event this
// client received or synthesized. It survives disconnects; only component
// teardown clears it. It is a view, never a source of truth for the roster
// or transcript. Not safe for concurrent use; the Manager serializes access.
type EventLog struct {
	entries []protocol.Message
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) Append(msg protocol.Message) {
	l.entries = append(l.entries, msg)
}

// Entries returns a copy of the log in arrival order.
func (l *EventLog) Entries() []protocol.Message {
	return slices.Clone(l.entries)
}

func (l *EventLog) Len() int {
	return len(l.entries)
}

// Clear empties the log. Called on teardown only, never on disconnect.
func (l *EventLog) Clear() {
	l.entries = nil
}
