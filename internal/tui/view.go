package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quizlive/internal/protocol"
	"quizlive/internal/session"
)

const (
	chatWindowLines = 10
	eventLogLines   = 8
)

// tokenColors maps the palette tokens the roster assigns to terminal colors.
var tokenColors = map[string]lipgloss.Color{
	"tomato":  "203",
	"crimson": "161",
	"pink":    "212",
	"plum":    "176",
	"purple":  "129",
	"violet":  "135",
	"indigo":  "63",
	"blue":    "33",
	"cyan":    "44",
	"teal":    "37",
	"green":   "34",
	"grass":   "40",
	"lime":    "118",
	"yellow":  "220",
	"orange":  "208",
	"brown":   "130",
	"gold":    "178",
	"bronze":  "137",
	"mauve":   "182",
	"slate":   "103",
	"sage":    "108",
	"olive":   "100",
	"sand":    "180",
	"red":     "196",
	"gray":    "245",
}

func tokenColor(token string) lipgloss.Color {
	if c, ok := tokenColors[token]; ok {
		return c
	}
	return tokenColors["gray"]
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)
	hintStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	timeStyle  = lipgloss.NewStyle().Faint(true)
	emptyStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("Live Game"))

	state := m.sess.State()
	connected := state == session.StateConnected

	if connected {
		sections = append(sections, "Player: "+m.name.Value()+"  (ctrl+q to quit game)")
	} else {
		form := m.name.View()
		if hint := nameHint(m.name.Value()); hint != "" {
			form += "\n" + hintStyle.Render(hint)
		}
		sections = append(sections, form)
	}

	sections = append(sections, statusStyle.Render("WebSocket Status: ")+string(state))

	if banner := m.sess.Banner(); banner != "" {
		sections = append(sections, bannerStyle.Render("Error: "+banner+"  (esc to dismiss)"))
	}

	if connected {
		sections = append(sections, m.rosterView(), m.chatView())
	}

	sections = append(sections, m.logView())
	sections = append(sections, helpStyle.Render("enter send/join · ctrl+q quit game · ctrl+c exit"))

	return strings.Join(sections, "\n\n") + "\n"
}

// rosterView renders one colored badge per participant.
func (m Model) rosterView() string {
	roster := m.sess.Roster()
	if len(roster) == 0 {
		return emptyStyle.Render("No players yet")
	}
	badges := make([]string, 0, len(roster))
	for _, p := range roster {
		style := lipgloss.NewStyle().
			Foreground(tokenColor(p.Color)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(tokenColor(p.Color)).
			Padding(0, 1)
		badges = append(badges, style.Render(p.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, badges...)
}

// chatView renders the transcript tail and the message input.
func (m Model) chatView() string {
	lines := m.sess.Transcript()
	var b strings.Builder
	if len(lines) == 0 {
		b.WriteString(emptyStyle.Render("No messages"))
	} else {
		start := 0
		if len(lines) > chatWindowLines {
			start = len(lines) - chatWindowLines
		}
		for i, line := range lines[start:] {
			if i > 0 {
				b.WriteByte('\n')
			}
			speaker := lipgloss.NewStyle().Foreground(tokenColor(line.Color)).Bold(true).Render(line.Speaker)
			b.WriteString(fmt.Sprintf("%s %s %s",
				speaker, line.Text, timeStyle.Render(line.Timestamp.Format("15:04:05"))))
		}
	}
	return boxStyle.Render(b.String()) + "\n" + m.chat.View()
}

// logView renders the diagnostic event log tail; always visible.
func (m Model) logView() string {
	events := m.sess.Events()
	var b strings.Builder
	b.WriteString(statusStyle.Render("Message Log"))
	b.WriteByte('\n')
	if len(events) == 0 {
		b.WriteString(emptyStyle.Render("No messages yet"))
	} else {
		start := 0
		if len(events) > eventLogLines {
			start = len(events) - eventLogLines
		}
		for i, ev := range events[start:] {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(fmt.Sprintf("%-11s %-20s %s %s",
				ev.Kind.Label(), ev.PlayerName, protocol.ContentJSON(ev),
				timeStyle.Render(ev.Timestamp.Format("15:04:05"))))
		}
	}
	return boxStyle.Render(b.String())
}
