// Package protocol implements the live-game wire protocol spoken between
// this client and the game server: a typed JSON envelope carrying one of two
// content payloads, selected by the message kind.
package protocol

import "time"

// Kind discriminates the message envelope. The admin and sent kinds are
// synthesized locally and never arrive from the server.
type Kind string

const (
	KindAdmin      Kind = "admin"
	KindSent       Kind = "sent"
	KindChat       Kind = "chat"
	KindJoin       Kind = "join"
	KindLeave      Kind = "leave"
	KindGameUpdate Kind = "game_update"
	KindError      Kind = "error"
	KindPlayerList Kind = "player_list"
)

// Label renders the kind for diagnostic display ("chat" -> "Chat").
func (k Kind) Label() string {
	s := string(k)
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// Content is the payload union. The concrete variant is determined solely by
// the envelope kind: player_list carries NameListContent, every other kind
// carries TextContent. Consumers must switch on the kind with a default arm
// so unknown future kinds flow through untouched.
type Content interface {
	isContent()
}

// TextContent carries a free-text payload.
type TextContent struct {
	Text string `json:"Text"`
}

func (TextContent) isContent() {}

// NameListContent carries the full roster for a player_list replace.
type NameListContent struct {
	Names []string `json:"Names"`
}

func (NameListContent) isContent() {}

// Message is a decoded protocol event. Immutable once decoded; the session
// event log stores these in arrival order.
type Message struct {
	Kind       Kind
	Timestamp  time.Time
	PlayerName string
	Content    Content
}

// NewTextMessage builds a client-originated message with a text payload.
// PlayerName is left empty: the server derives identity from the connection.
func NewTextMessage(kind Kind, text string, at time.Time) Message {
	return Message{
		Kind:      kind,
		Timestamp: at,
		Content:   TextContent{Text: text},
	}
}

// Text returns the text payload, or the empty string for other variants.
func (m Message) Text() string {
	if c, ok := m.Content.(TextContent); ok {
		return c.Text
	}
	return ""
}

// Names returns the name-list payload, or nil for other variants.
func (m Message) Names() []string {
	if c, ok := m.Content.(NameListContent); ok {
		return c.Names
	}
	return nil
}
