// Package tui is the session shell for the live multiplayer mode: name
// entry, connect/quit, connection status, error banner, and the composed
// roster, chat, and event log views.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quizlive/internal/domain"
	"quizlive/internal/protocol"
	"quizlive/internal/session"
)

// Session is what the shell needs from the connection manager.
type Session interface {
	Connect(ctx context.Context, name string)
	Send(text string)
	Disconnect()
	Teardown()
	State() session.State
	Roster() []domain.Participant
	Transcript() []domain.ChatLine
	Events() []protocol.Message
	Banner() string
	DismissBanner()
	Updates() <-chan struct{}
}

// sessionUpdateMsg signals that the manager's state or projections changed;
// the view re-reads the snapshots.
type sessionUpdateMsg struct{}

type Model struct {
	sess Session

	name textinput.Model
	chat textinput.Model

	// lastState detects transitions so focus can follow the connection.
	lastState session.State

	width  int
	height int
}

func New(sess Session) Model {
	name := textinput.New()
	name.Placeholder = "Enter player name"
	name.CharLimit = domain.MaxPlayerNameLength
	name.Prompt = "> "
	name.Focus()

	chat := textinput.New()
	chat.Placeholder = "New message"
	chat.Prompt = "> "

	return Model{
		sess:      sess,
		name:      name,
		chat:      chat,
		lastState: sess.State(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForUpdate(m.sess))
}

func waitForUpdate(s Session) tea.Cmd {
	return func() tea.Msg {
		<-s.Updates()
		return sessionUpdateMsg{}
	}
}

func connectCmd(s Session, name string) tea.Cmd {
	return func() tea.Msg {
		s.Connect(context.Background(), name)
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionUpdateMsg:
		m.syncFocus()
		return m, waitForUpdate(m.sess)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.sess.Teardown()
			return m, tea.Quit
		case "ctrl+q":
			// Quit the game but stay in the shell; the manager records the
			// close (or the no-connection error) in the event log.
			m.sess.Disconnect()
			return m, nil
		case "esc":
			m.sess.DismissBanner()
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.sess.State() == session.StateConnected {
		m.chat, cmd = m.chat.Update(msg)
	} else {
		m.name, cmd = m.name.Update(msg)
	}
	return m, cmd
}

// submit routes Enter to whichever form is active: the name form connects,
// the chat form sends.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.sess.State() == session.StateConnected {
		text := m.chat.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.chat.SetValue("")
		m.sess.Send(text)
		return m, nil
	}

	name := m.name.Value()
	if !domain.IsPlayerNameValid(name) {
		// Rejected locally; no connect attempt is made.
		return m, nil
	}
	return m, connectCmd(m.sess, name)
}

// syncFocus moves keyboard focus between the name and chat forms as the
// connection state changes.
func (m *Model) syncFocus() {
	state := m.sess.State()
	if state == m.lastState {
		return
	}
	m.lastState = state
	if state == session.StateConnected {
		m.name.Blur()
		m.chat.Focus()
	} else {
		m.chat.Blur()
		m.chat.SetValue("")
		m.name.Focus()
	}
}

// nameHint explains why the current name input cannot join yet. Empty when
// the name is valid or the field is empty.
func nameHint(name string) string {
	if name == "" || domain.IsPlayerNameValid(name) {
		return ""
	}
	if len(name) > domain.MaxPlayerNameLength {
		return "Name cannot be longer than 20 characters"
	}
	if strings.TrimSpace(name) != name {
		return "Name cannot begin or end with a space"
	}
	return "Name must contain only letters, numbers, and spaces"
}
