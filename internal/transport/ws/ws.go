// Package ws wraps the client side of the live-game websocket transport.
// The session layer talks to the Conn and Dialer seams so tests can swap in
// scripted peers.
package ws

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// DefaultPlayerPath is the server route a player connects to; identity is
// conveyed as the final path segment at connect time, not by a handshake
// message after the upgrade.
const DefaultPlayerPath = "/liveGame/player"

// Conn is the subset of a websocket connection the session layer uses.
type Conn interface {
	// Read blocks for the next frame payload.
	Read() ([]byte, error)
	// WriteText sends one text frame.
	WriteText(data []byte) error
	Close() error
}

// Dialer opens live-game connections.
type Dialer interface {
	Dial(ctx context.Context, target string) (Conn, error)
}

// GorillaDialer dials with the gorilla/websocket client.
type GorillaDialer struct{}

func (GorillaDialer) Dial(ctx context.Context, target string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, err
	}
	return gorillaConn{conn}, nil
}

type gorillaConn struct {
	conn *websocket.Conn
}

func (c gorillaConn) Read() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c gorillaConn) WriteText(data []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c gorillaConn) Close() error {
	return c.conn.Close()
}

// PlayerURL builds the websocket target for a player name from an http(s)
// base URL, e.g. "http://localhost:8080" + "Alice" ->
// "ws://localhost:8080/liveGame/player/Alice".
func PlayerURL(base, playerPath, name string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme: %s", u.Scheme)
	}
	if playerPath == "" {
		playerPath = DefaultPlayerPath
	}
	// u.String() percent-escapes the path, so the name goes in unescaped.
	u.Path = strings.TrimSuffix(u.Path, "/") + playerPath + "/" + strings.TrimSpace(name)
	return u.String(), nil
}
