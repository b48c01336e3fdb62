package net

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	server "ai-village/server"
)

func newTestServer(t *testing.T) (*httptest.Server, *server.Hub) {
	t.Helper()
	hub := server.NewHub(server.DefaultHubConfig())
	handler := NewHTTPHandler(hub, HTTPHandlerConfig{})
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts, hub
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.StatusCode, body)
	}
}

func TestJoinEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/join", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /join: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	var join server.JoinResponse
	if err := json.NewDecoder(resp.Body).Decode(&join); err != nil {
		t.Fatalf("decode join response: %v", err)
	}
	if join.ID == "" {
		t.Fatalf("join response missing player id")
	}
	if len(join.Agents) == 0 || len(join.Objects) == 0 {
		t.Fatalf("join response missing world snapshot: %+v", join)
	}
}

func TestJoinRejectsGet(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/join")
	if err != nil {
		t.Fatalf("GET /join: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestDiagnosticsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/diagnostics")
	if err != nil {
		t.Fatalf("GET /diagnostics: %v", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Status   string                   `json:"status"`
		TickRate int                      `json:"tickRate"`
		Report   server.DiagnosticsReport `json:"report"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode diagnostics: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("unexpected status %q", payload.Status)
	}
	if payload.TickRate != server.TickRate() {
		t.Fatalf("unexpected tick rate %d", payload.TickRate)
	}
	if len(payload.Report.Agents) == 0 {
		t.Fatalf("diagnostics report missing agents")
	}
}

func TestWebsocketRejectsUnknownPlayer(t *testing.T) {
	ts, _ := newTestServer(t)

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?id=player-404"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected close for unknown player")
	}
}

func TestWebsocketDeliversInitialState(t *testing.T) {
	ts, hub := newTestServer(t)
	join := hub.Join()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?id=" + join.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read initial state: %v", err)
	}

	var msg struct {
		Ver     int             `json:"ver"`
		Type    string          `json:"type"`
		Players []server.Player `json:"players"`
		Agents  []server.Agent  `json:"agents"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if msg.Type != "state" || msg.Ver != server.ProtocolVersion {
		t.Fatalf("unexpected message header %+v", msg)
	}
	if len(msg.Players) != 1 || len(msg.Agents) == 0 {
		t.Fatalf("initial state missing entities: %+v", msg)
	}
}

func TestWebsocketHeartbeatAck(t *testing.T) {
	ts, hub := newTestServer(t)
	join := hub.Join()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?id=" + join.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read initial state: %v", err)
	}

	sent := time.Now().UnixMilli()
	ping := map[string]any{"type": "heartbeat", "sentAt": sent}
	if err := conn.WriteJSON(ping); err != nil {
		t.Fatalf("write heartbeat: %v", err)
	}

	var ack heartbeatMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatalf("read heartbeat ack: %v", err)
	}
	if ack.Type != "heartbeat" || ack.ClientTime != sent {
		t.Fatalf("unexpected ack %+v", ack)
	}
}
