package session

import (
	"fmt"
	"slices"

	"quizlive/internal/domain"
	"quizlive/internal/protocol"
)

// Transcript projects chat-relevant protocol events into display-ready
// lines. It is cleared exactly when the transport closes, unlike the event
// log. Not safe for concurrent use; the Manager serializes access.
type Transcript struct {
	lines []domain.ChatLine
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Apply folds one event into the transcript. Chat events become speaker
// lines colored by roster lookup; join and leave events become system lines.
// Every other kind, unknown kinds included, is a no-op. The caller must have
// already applied the event to the roster so the lookup sees the post-update
// state.
func (t *Transcript) Apply(msg protocol.Message, roster *Roster) {
	switch msg.Kind {
	case protocol.KindChat:
		t.lines = append(t.lines, domain.ChatLine{
			Speaker:   msg.PlayerName,
			Color:     t.speakerColor(msg.PlayerName, roster),
			Text:      msg.Text(),
			Timestamp: msg.Timestamp,
		})
	case protocol.KindJoin, protocol.KindLeave:
		t.lines = append(t.lines, domain.ChatLine{
			Speaker:   domain.SystemSpeaker,
			Color:     domain.SystemColor,
			Text:      fmt.Sprintf("%s %s", msg.PlayerName, msg.Text()),
			Timestamp: msg.Timestamp,
		})
	default:
	}
}

// Lines returns a copy of the transcript in append order.
func (t *Transcript) Lines() []domain.ChatLine {
	return slices.Clone(t.lines)
}

func (t *Transcript) Len() int {
	return len(t.lines)
}

// Clear resets the transcript for the next connection.
func (t *Transcript) Clear() {
	t.lines = nil
}

func (t *Transcript) speakerColor(name string, roster *Roster) string {
	if name == domain.SystemSpeaker {
		return domain.SystemColor
	}
	if color, ok := roster.ColorOf(name); ok {
		return color
	}
	return domain.FallbackColor
}
