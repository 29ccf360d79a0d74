package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// envelope is the wire form of a Message.
type envelope struct {
	Type       Kind            `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	PlayerName string          `json:"playerName,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
}

// Encode serializes a message for transmission.
func Encode(m Message) ([]byte, error) {
	var content json.RawMessage
	if m.Content != nil {
		data, err := json.Marshal(m.Content)
		if err != nil {
			return nil, fmt.Errorf("encode %s content: %w", m.Kind, err)
		}
		content = data
	}
	return json.Marshal(envelope{
		Type:       m.Kind,
		Timestamp:  m.Timestamp,
		PlayerName: m.PlayerName,
		Content:    content,
	})
}

// Decode parses a raw frame into a Message. The kind is never checked
// against an allow-list: unknown kinds decode structurally so future server
// messages still reach the event log. Only a malformed envelope fails.
func Decode(raw []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Message{}, fmt.Errorf("decode frame: %w", err)
	}
	msg := Message{
		Kind:       env.Type,
		Timestamp:  env.Timestamp,
		PlayerName: env.PlayerName,
	}
	if len(env.Content) == 0 {
		return msg, nil
	}

	// player_list is the only kind with a name-list payload; everything
	// else, unknown kinds included, is treated as text-bearing. A content
	// shape that does not match decodes to its zero value rather than
	// failing the frame.
	switch env.Type {
	case KindPlayerList:
		var names NameListContent
		if err := json.Unmarshal(env.Content, &names); err != nil {
			return Message{}, fmt.Errorf("decode %s content: %w", env.Type, err)
		}
		msg.Content = names
	case KindAdmin, KindSent, KindChat, KindJoin, KindLeave, KindGameUpdate, KindError:
		var text TextContent
		if err := json.Unmarshal(env.Content, &text); err != nil {
			return Message{}, fmt.Errorf("decode %s content: %w", env.Type, err)
		}
		msg.Content = text
	default:
		// Unknown kind: decode the content on a best-effort basis so the
		// frame still reaches the event log.
		var text TextContent
		if err := json.Unmarshal(env.Content, &text); err == nil {
			msg.Content = text
		}
	}
	return msg, nil
}

// ContentJSON renders the payload in its raw structural form for the
// diagnostic event log view.
func ContentJSON(m Message) string {
	if m.Content == nil {
		return ""
	}
	data, err := json.Marshal(m.Content)
	if err != nil {
		return ""
	}
	return string(data)
}
