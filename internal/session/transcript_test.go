package session

import (
	"testing"
	"time"

	"quizlive/internal/domain"
	"quizlive/internal/protocol"
)

var testStamp = time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

func chatMsg(name, text string) protocol.Message {
	return protocol.Message{
		Kind:       protocol.KindChat,
		Timestamp:  testStamp,
		PlayerName: name,
		Content:    protocol.TextContent{Text: text},
	}
}

func TestChatLineUsesRosterColor(t *testing.T) {
	roster := NewRoster()
	roster.Join("Alice")
	color, _ := roster.ColorOf("Alice")

	tr := NewTranscript()
	tr.Apply(chatMsg("Alice", "hi"), roster)

	lines := tr.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if line.Speaker != "Alice" || line.Text != "hi" || line.Color != color {
		t.Fatalf("unexpected line: %+v", line)
	}
	if !line.Timestamp.Equal(testStamp) {
		t.Fatalf("timestamp not carried over: %v", line.Timestamp)
	}
}

func TestChatLineUnknownSpeakerFallsBackGray(t *testing.T) {
	tr := NewTranscript()
	tr.Apply(chatMsg("Stranger", "hello"), NewRoster())
	if got := tr.Lines()[0].Color; got != domain.FallbackColor {
		t.Fatalf("expected %q, got %q", domain.FallbackColor, got)
	}
}

func TestSystemSpeakerUsesSystemColor(t *testing.T) {
	tr := NewTranscript()
	tr.Apply(chatMsg(domain.SystemSpeaker, "game starting"), NewRoster())
	if got := tr.Lines()[0].Color; got != domain.SystemColor {
		t.Fatalf("expected %q, got %q", domain.SystemColor, got)
	}
}

func TestJoinAndLeaveSynthesizeSystemLines(t *testing.T) {
	roster := NewRoster()
	tr := NewTranscript()

	join := protocol.Message{
		Kind:       protocol.KindJoin,
		Timestamp:  testStamp,
		PlayerName: "Alice",
		Content:    protocol.TextContent{Text: "joined the game"},
	}
	roster.Join(join.PlayerName)
	tr.Apply(join, roster)

	leave := protocol.Message{
		Kind:       protocol.KindLeave,
		Timestamp:  testStamp,
		PlayerName: "Alice",
		Content:    protocol.TextContent{Text: "left the game"},
	}
	roster.Leave(leave.PlayerName)
	tr.Apply(leave, roster)

	lines := tr.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Speaker != domain.SystemSpeaker || lines[0].Text != "Alice joined the game" {
		t.Fatalf("unexpected join line: %+v", lines[0])
	}
	if lines[1].Speaker != domain.SystemSpeaker || lines[1].Text != "Alice left the game" {
		t.Fatalf("unexpected leave line: %+v", lines[1])
	}
	for _, line := range lines {
		if line.Color != domain.SystemColor {
			t.Fatalf("system line with color %q", line.Color)
		}
	}
}

func TestOtherKindsAreNoops(t *testing.T) {
	tr := NewTranscript()
	roster := NewRoster()
	for _, kind := range []protocol.Kind{
		protocol.KindAdmin, protocol.KindSent, protocol.KindError,
		protocol.KindGameUpdate, protocol.KindPlayerList, protocol.Kind("future"),
	} {
		tr.Apply(protocol.Message{Kind: kind, Timestamp: testStamp}, roster)
	}
	if tr.Len() != 0 {
		t.Fatalf("expected empty transcript, got %d lines", tr.Len())
	}
}

func TestClearEmptiesTranscript(t *testing.T) {
	tr := NewTranscript()
	tr.Apply(chatMsg("Alice", "hi"), NewRoster())
	tr.Clear()
	if tr.Len() != 0 {
		t.Fatalf("expected empty transcript after clear")
	}
}
