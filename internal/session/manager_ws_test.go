package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizlive/internal/logging"
	"quizlive/internal/protocol"
)

// fakePeer is an in-process game server speaking the live protocol, in the
// same spirit as the real backend: the player name rides in the URL path and
// a join event is broadcast on connect.
func fakePeer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/liveGame/player/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/liveGame/player/")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		join := map[string]any{
			"type":       "join",
			"timestamp":  time.Now().Format(time.RFC3339),
			"playerName": name,
			"content":    map[string]string{"Text": "joined the game"},
		}
		if err := conn.WriteJSON(join); err != nil {
			return
		}

		// Echo chats back with the connection's identity filled in.
		for {
			var inbound struct {
				Type    string `json:"type"`
				Content struct {
					Text string `json:"Text"`
				} `json:"content"`
			}
			if err := conn.ReadJSON(&inbound); err != nil {
				return
			}
			if inbound.Type != "chat" {
				continue
			}
			echo := map[string]any{
				"type":       "chat",
				"timestamp":  time.Now().Format(time.RFC3339),
				"playerName": name,
				"content":    map[string]string{"Text": inbound.Content.Text},
			}
			if err := conn.WriteJSON(echo); err != nil {
				return
			}
		}
	})
	return httptest.NewServer(mux)
}

func TestManagerAgainstWebsocketPeer(t *testing.T) {
	server := fakePeer(t)
	defer server.Close()

	mgr := NewManager(server.URL, "", logging.Discard())
	defer mgr.Teardown()

	mgr.Connect(context.Background(), "Alice")
	if mgr.State() != StateConnected {
		t.Fatalf("expected Connected, got %s", mgr.State())
	}

	waitFor(t, "server join applied", func() bool { return len(mgr.Roster()) == 1 })
	roster := mgr.Roster()
	if roster[0].Name != "Alice" {
		t.Fatalf("expected Alice in roster, got %+v", roster)
	}

	mgr.Send("hello over the wire")
	waitFor(t, "echo received", func() bool { return len(mgr.Transcript()) == 2 })
	line := mgr.Transcript()[1]
	if line.Speaker != "Alice" || line.Text != "hello over the wire" {
		t.Fatalf("unexpected echoed line: %+v", line)
	}
	if line.Color != roster[0].Color {
		t.Fatalf("echoed chat must use the roster color")
	}
	if countKind(mgr.Events(), protocol.KindSent) != 1 {
		t.Fatalf("expected one sent event in the log")
	}

	mgr.Disconnect()
	waitFor(t, "disconnect observed", func() bool { return mgr.State() == StateDisconnected })
	if len(mgr.Transcript()) != 0 || len(mgr.Roster()) != 0 {
		t.Fatalf("projections must reset on close")
	}
}
