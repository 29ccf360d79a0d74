// Package session implements the client side of the live multiplayer mode:
// the connection state machine and the three projections derived from the
// protocol event stream (roster, chat transcript, event log).
package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"quizlive/internal/domain"
	"quizlive/internal/protocol"
	"quizlive/internal/transport/ws"
)

// State is the connection lifecycle phase. The string values are shown
// verbatim in the UI status indicator.
type State string

const (
	StateDisconnected State = "Disconnected"
	StateConnecting   State = "Connecting..."
	StateConnected    State = "Connected"
	StateError        State = "Error"
)

// Manager owns at most one live connection to the game server and fans every
// inbound frame out to the roster, transcript, and event log. User-facing
// failures (send while closed, duplicate connect, close with no connection)
// never surface as returned errors; they are observable only as synthesized
// events in the log.
type Manager struct {
	log        zerolog.Logger
	dialer     ws.Dialer
	now        func() time.Time
	baseURL    string
	playerPath string

	mu    sync.RWMutex
	state State
	conn  ws.Conn
	// gen invalidates callbacks from read loops of previous connections.
	gen int

	roster     *Roster
	transcript *Transcript
	events     *EventLog
	banner     string

	updates chan struct{}
}

// NewManager builds a manager that dials baseURL with the gorilla client.
// An empty playerPath selects the default live-game route.
func NewManager(baseURL, playerPath string, logger zerolog.Logger) *Manager {
	m := NewManagerWithDeps(baseURL, ws.GorillaDialer{}, time.Now, logger)
	if playerPath != "" {
		m.playerPath = playerPath
	}
	return m
}

// NewManagerWithDeps injects the dialer and clock, for tests.
func NewManagerWithDeps(baseURL string, dialer ws.Dialer, now func() time.Time, logger zerolog.Logger) *Manager {
	return &Manager{
		log:        logger,
		dialer:     dialer,
		now:        now,
		baseURL:    baseURL,
		playerPath: ws.DefaultPlayerPath,
		state:      StateDisconnected,
		roster:     NewRoster(),
		transcript: NewTranscript(),
		events:     NewEventLog(),
		updates:    make(chan struct{}, 1),
	}
}

// Connect opens the transport addressed by name. Connecting while already
// connected is a guarded no-op that records an admin event instead of
// opening a second socket. Blocks until the dial settles; there is no
// timeout beyond what ctx imposes.
func (m *Manager) Connect(ctx context.Context, name string) {
	m.mu.Lock()
	if m.state == StateConnected {
		m.appendLocalLocked(protocol.KindAdmin, "Already connected!")
		m.mu.Unlock()
		m.signal()
		return
	}
	if !domain.IsPlayerNameValid(name) {
		// The shell validates before calling; this guard keeps the no-throw
		// contract for direct library users. No transport is opened.
		m.appendLocalLocked(protocol.KindError, fmt.Sprintf("Invalid player name: %q", name))
		m.mu.Unlock()
		m.signal()
		return
	}
	m.state = StateConnecting
	attempt := uuid.NewString()
	m.mu.Unlock()
	m.signal()

	logger := m.log.With().Str("attempt", attempt).Str("player", name).Logger()

	target, err := ws.PlayerURL(m.baseURL, m.playerPath, name)
	if err != nil {
		logger.Error().Err(err).Msg("bad server url")
		m.failConnect(fmt.Sprintf("Connection error: %v", err))
		return
	}

	logger.Info().Str("target", target).Msg("connecting")
	conn, err := m.dialer.Dial(ctx, target)
	if err != nil {
		logger.Error().Err(err).Msg("dial failed")
		m.failConnect(fmt.Sprintf("Connection error: %v", err))
		return
	}

	m.mu.Lock()
	m.conn = conn
	m.gen++
	gen := m.gen
	m.state = StateConnected
	m.appendLocalLocked(protocol.KindAdmin, "Connection established")
	m.mu.Unlock()
	m.signal()

	logger.Info().Msg("connected")
	go m.readLoop(conn, gen, logger)
}

// Send encodes and transmits a chat message if the connection is open;
// otherwise it records a local error event. Callers never need to handle a
// failure path.
func (m *Manager) Send(text string) {
	m.mu.Lock()
	defer func() {
		m.mu.Unlock()
		m.signal()
	}()

	if m.state != StateConnected || m.conn == nil {
		m.appendLocalLocked(protocol.KindError,
			fmt.Sprintf("Cannot send message: Connection not open. Connection status: %s", m.state))
		return
	}

	msg := protocol.NewTextMessage(protocol.KindChat, text, m.now())
	data, err := protocol.Encode(msg)
	if err != nil {
		m.appendLocalLocked(protocol.KindError, fmt.Sprintf("Failed to encode message: %v", err))
		return
	}
	if err := m.conn.WriteText(data); err != nil {
		// A send racing a close is allowed to fail silently toward the
		// caller; the event stream still records it.
		m.appendLocalLocked(protocol.KindError, fmt.Sprintf("Failed to send message: %v", err))
		return
	}
	m.appendLocalLocked(protocol.KindSent, text)
}

// Disconnect closes the live transport if one exists. The read loop observes
// the close and performs the state transition and projection resets.
// Idempotent: with no transport it records a local error event and returns.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	conn := m.conn
	if conn == nil {
		m.appendLocalLocked(protocol.KindError, "No active connection to close")
		m.mu.Unlock()
		m.signal()
		return
	}
	m.mu.Unlock()
	_ = conn.Close()
}

// Teardown closes any live transport and clears the event log. Used when the
// shell itself is discarded, not on ordinary disconnects.
func (m *Manager) Teardown() {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.gen++
	m.state = StateDisconnected
	m.roster.Reset()
	m.transcript.Clear()
	m.events.Clear()
	m.banner = ""
	m.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
	m.signal()
}

// readLoop pumps frames from one connection until it dies. gen guards
// against a stale loop mutating state that belongs to a newer connection.
func (m *Manager) readLoop(conn ws.Conn, gen int, logger zerolog.Logger) {
	for {
		data, err := conn.Read()
		if err != nil {
			if isTransportClose(err) {
				logger.Info().Msg("connection closed")
				m.handleClose(gen)
			} else {
				logger.Error().Err(err).Msg("transport error")
				m.handleTransportError(gen, conn, err)
			}
			return
		}
		m.handleFrame(gen, data, logger)
	}
}

// handleFrame decodes one inbound frame and fans it out. The roster update
// happens before the transcript's color lookup for the same frame, so a join
// that both adds a participant and produces a system line resolves against
// the post-update roster.
func (m *Manager) handleFrame(gen int, data []byte, logger zerolog.Logger) {
	msg, err := protocol.Decode(data)
	if err != nil {
		logger.Warn().Err(err).Msg("dropping malformed frame")
		m.mu.Lock()
		if gen == m.gen {
			m.appendLocalLocked(protocol.KindError, fmt.Sprintf("Malformed message from server: %v", err))
		}
		m.mu.Unlock()
		m.signal()
		return
	}

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	switch msg.Kind {
	case protocol.KindJoin:
		m.roster.Join(msg.PlayerName)
	case protocol.KindLeave:
		m.roster.Leave(msg.PlayerName)
	case protocol.KindPlayerList:
		m.roster.Replace(msg.Names())
	default:
		// Chat, admin, error, game_update, and unknown kinds leave the
		// roster untouched.
	}
	m.transcript.Apply(msg, m.roster)
	m.applyBannerLocked(msg)
	m.events.Append(msg)
	m.mu.Unlock()
	m.signal()
}

func (m *Manager) handleClose(gen int) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.conn = nil
	m.state = StateDisconnected
	// Reset-on-close: a reconnect always starts from clean projections. The
	// event log is deliberately retained as a trace across attempts.
	m.roster.Reset()
	m.transcript.Clear()
	m.appendLocalLocked(protocol.KindAdmin, "Connection closed")
	m.mu.Unlock()
	m.signal()
}

// handleTransportError tears the failed connection down the same way a close
// does: the transport is gone either way, and a later reconnect must start
// from clean projections instead of merging with the dead session's state.
// Only the state label and the logged event differ from the close path.
func (m *Manager) handleTransportError(gen int, conn ws.Conn, err error) {
	_ = conn.Close()
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.conn = nil
	m.state = StateError
	m.roster.Reset()
	m.transcript.Clear()
	m.appendLocalLocked(protocol.KindError, err.Error())
	m.mu.Unlock()
	m.signal()
}

func (m *Manager) failConnect(text string) {
	m.mu.Lock()
	m.state = StateError
	m.appendLocalLocked(protocol.KindError, text)
	m.mu.Unlock()
	m.signal()
}

// appendLocalLocked synthesizes a local event and records it. A local error
// raises the banner, but local non-error events never lower it: only inbound
// frames may dismiss a server-reported error. Callers hold mu.
func (m *Manager) appendLocalLocked(kind protocol.Kind, text string) {
	msg := protocol.NewTextMessage(kind, text, m.now())
	if kind == protocol.KindError {
		m.banner = text
	}
	m.events.Append(msg)
}

// applyBannerLocked keeps the error banner in sync with the inbound stream:
// the latest error's text sticks until any non-error frame arrives.
func (m *Manager) applyBannerLocked(msg protocol.Message) {
	if msg.Kind == protocol.KindError {
		m.banner = msg.Text()
	} else {
		m.banner = ""
	}
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Roster returns a snapshot of the participants in join order.
func (m *Manager) Roster() []domain.Participant {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roster.Participants()
}

// Transcript returns a snapshot of the chat transcript.
func (m *Manager) Transcript() []domain.ChatLine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transcript.Lines()
}

// Events returns a snapshot of the diagnostic event log.
func (m *Manager) Events() []protocol.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events.Entries()
}

// Banner returns the latest error text to surface, or "" when none is
// outstanding.
func (m *Manager) Banner() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.banner
}

// DismissBanner clears the error banner without touching the event log.
func (m *Manager) DismissBanner() {
	m.mu.Lock()
	m.banner = ""
	m.mu.Unlock()
	m.signal()
}

// Updates returns a channel that receives a signal whenever state or any
// projection changes. Signals coalesce; consumers re-read the snapshots.
func (m *Manager) Updates() <-chan struct{} {
	return m.updates
}

func (m *Manager) signal() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

// isTransportClose reports whether a read failure is a close notification
// (peer close frame or our own Disconnect) rather than a transport fault.
func isTransportClose(err error) bool {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return true
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	return false
}
