package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"vyna-tutor-agent/internal/rpc"
)

func TestFrontendRPCRoundTrip(t *testing.T) {
	hub := NewHub(nil)
	server := newWSServer(t, hub)
	defer server.Close()

	conn := dialPeer(t, server, "room-1", "front")
	defer conn.Close()

	// Frontend replies ok to whatever request arrives.
	go answerRequests(conn, `{"ok": true, "panel": "quiz"}`)

	room := waitForPeer(t, hub, "room-1")
	gateway := rpc.NewGateway(2 * time.Second)
	target, err := rpc.ResolveTarget(room)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	resp, err := gateway.Call(context.Background(), room, target, "client.quiz", map[string]string{"action": "start_quiz"})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !resp.OK {
		t.Fatalf("expected ok response, got %+v", resp)
	}
}

func TestPerformRPCTimesOutOnSilentPeer(t *testing.T) {
	hub := NewHub(nil)
	server := newWSServer(t, hub)
	defer server.Close()

	conn := dialPeer(t, server, "room-1", "front")
	defer conn.Close()

	room := waitForPeer(t, hub, "room-1")
	gateway := rpc.NewGateway(50 * time.Millisecond)
	target, _ := rpc.ResolveTarget(room)

	_, err := gateway.Call(context.Background(), room, target, "client.quiz", struct{}{})
	if !rpc.IsKind(err, rpc.KindTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}

	// The peer is still usable after the abandoned call.
	go answerRequests(conn, `{"ok": true}`)
	gateway = rpc.NewGateway(2 * time.Second)
	if _, err := gateway.Call(context.Background(), room, target, "client.quiz", struct{}{}); err != nil {
		t.Fatalf("expected later call to succeed, got %v", err)
	}
}

func TestPerformRPCUnknownPeer(t *testing.T) {
	hub := NewHub(nil)
	server := newWSServer(t, hub)
	defer server.Close()

	conn := dialPeer(t, server, "room-1", "front")
	defer conn.Close()

	room := waitForPeer(t, hub, "room-1")
	if _, err := room.PerformRPC(context.Background(), "ghost", "client.quiz", "{}"); err == nil {
		t.Fatalf("expected error for unknown destination")
	}
}

func TestAgentSideHandler(t *testing.T) {
	hub := NewHub(func(room *Room) {
		room.RegisterHandler("agent.toggleComponent", func(payload string) string {
			if strings.Contains(payload, "known-id") {
				return "success"
			}
			return "error: component not found"
		})
	})
	server := newWSServer(t, hub)
	defer server.Close()

	conn := dialPeer(t, server, "room-1", "front")
	defer conn.Close()

	if err := conn.WriteJSON(frame{
		Type:    frameRPCRequest,
		ID:      "req-1",
		Method:  "agent.toggleComponent",
		Payload: `{"id": "known-id"}`,
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var reply frame
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Type != frameRPCResponse || reply.ID != "req-1" {
		t.Fatalf("unexpected reply frame: %+v", reply)
	}
	var result struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal([]byte(reply.Payload), &result); err != nil || result.Result != "success" {
		t.Fatalf("expected success result, got %q err=%v", reply.Payload, err)
	}
}

func TestRoomDroppedWhenEmpty(t *testing.T) {
	hub := NewHub(nil)
	server := newWSServer(t, hub)
	defer server.Close()

	conn := dialPeer(t, server, "room-1", "front")
	waitForPeer(t, hub, "room-1")
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := hub.Room("room-1"); !ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected empty room to be dropped")
}

func newWSServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	wsHandler := NewWSHandler(hub)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	return httptest.NewServer(mux)
}

func dialPeer(t *testing.T, server *httptest.Server, room, identity string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?room=" + room + "&identity=" + identity
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

// answerRequests replies to every rpc_request with the given payload.
func answerRequests(conn *websocket.Conn, payload string) {
	for {
		var inbound frame
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		if inbound.Type != frameRPCRequest {
			continue
		}
		_ = conn.WriteJSON(frame{Type: frameRPCResponse, ID: inbound.ID, Payload: payload})
	}
}

func waitForPeer(t *testing.T, hub *Hub, roomName string) *Room {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if room, ok := hub.Room(roomName); ok && len(room.RemoteParticipants()) > 0 {
			return room
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("peer never joined room %s", roomName)
	return nil
}
