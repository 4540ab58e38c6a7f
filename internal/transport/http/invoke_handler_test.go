package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vyna-tutor-agent/internal/app"
	"vyna-tutor-agent/internal/catalog"
	"vyna-tutor-agent/internal/infra/memory"
	"vyna-tutor-agent/internal/rpc"
	"vyna-tutor-agent/internal/tools"
)

func newAgentServer(t *testing.T) (*httptest.Server, *Hub, *memory.SessionStore) {
	t.Helper()

	catalogRepo := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(catalog.Builtin()), time.Minute)
	sessions := memory.NewSessionStore(func(string) *app.SessionState {
		return app.NewSessionState(catalogRepo)
	})

	hub := NewHub(func(room *Room) {
		session := sessions.GetOrCreate(room.Name())
		room.RegisterHandler(tools.ToggleComponentMethod, tools.NewToggleComponentHandler(session))
	})

	gateway := rpc.NewGateway(time.Second)
	invokeHandler := NewInvokeHandler(hub, sessions, gateway, tools.DefaultMethods())
	wsHandler := NewWSHandler(hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/invoke", invokeHandler)
	return httptest.NewServer(mux), hub, sessions
}

func invoke(t *testing.T, server *httptest.Server, body string) string {
	t.Helper()
	resp, err := http.Post(server.URL+"/invoke", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out.Reply
}

func TestInvokeWithoutFrontendStillAnswers(t *testing.T) {
	server, _, _ := newAgentServer(t)
	defer server.Close()

	reply := invoke(t, server, `{"room": "room-1", "tool": "create_quiz", "args": {"topic": "algebra"}}`)
	if reply != "Created a 2-question quiz on algebra, but couldn't display it" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	// The quiz advanced locally even with no display.
	reply = invoke(t, server, `{"room": "room-1", "tool": "submit_answer", "args": {"answer": "a"}}`)
	if reply == "" {
		t.Fatalf("expected a spoken reply")
	}
	reply = invoke(t, server, `{"room": "room-1", "tool": "get_quiz_status"}`)
	if reply != "Currently on question 2 of 2. Score so far: 1/1 answered correctly." {
		t.Fatalf("unexpected status: %q", reply)
	}
}

func TestInvokeFullQuizFlowWithFrontend(t *testing.T) {
	server, hub, _ := newAgentServer(t)
	defer server.Close()

	conn := dialPeer(t, server, "room-2", "front")
	defer conn.Close()
	go answerRequests(conn, `{"ok": true}`)
	waitForPeer(t, hub, "room-2")

	reply := invoke(t, server, `{"room": "room-2", "tool": "create_quiz", "args": {"topic": "fractions", "num_questions": 1, "difficulty": "EASY"}}`)
	if reply != "I've created a easy fractions quiz with 1 questions. Let's start with question 1!" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	reply = invoke(t, server, `{"room": "room-2", "tool": "submit_answer", "args": {"answer": "b"}}`)
	if reply != "Quiz completed! You scored 1/1 (100%). Great job!" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	reply = invoke(t, server, `{"room": "room-2", "tool": "show_quiz_results"}`)
	if reply != "Here are your detailed results: 1/1 correct (100%)" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestConcurrentInvokeAndFrontendHandler(t *testing.T) {
	server, hub, sessions := newAgentServer(t)
	defer server.Close()

	conn := dialPeer(t, server, "room-3", "front")
	defer conn.Close()
	waitForPeer(t, hub, "room-3")

	const rounds = 20

	// The frontend fires toggle requests at the agent while answering the
	// agent's own display requests, so both mutation paths run at once.
	frontendDone := make(chan error, 1)
	go func() {
		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		for i := 0; i < rounds; i++ {
			id := fmt.Sprintf("toggle-%d", i)
			if err := conn.WriteJSON(frame{
				Type:    frameRPCRequest,
				ID:      id,
				Method:  tools.ToggleComponentMethod,
				Payload: `{"id": "missing"}`,
			}); err != nil {
				frontendDone <- err
				return
			}
			for {
				var inbound frame
				if err := conn.ReadJSON(&inbound); err != nil {
					frontendDone <- err
					return
				}
				if inbound.Type == frameRPCRequest {
					if err := conn.WriteJSON(frame{Type: frameRPCResponse, ID: inbound.ID, Payload: `{"ok": true}`}); err != nil {
						frontendDone <- err
						return
					}
					continue
				}
				if inbound.ID == id {
					break
				}
			}
		}
		frontendDone <- nil
	}()

	for i := 0; i < rounds; i++ {
		invoke(t, server, `{"room": "room-3", "tool": "create_component", "args": {"content": "note"}}`)
	}

	if err := <-frontendDone; err != nil {
		t.Fatalf("frontend loop: %v", err)
	}

	session, ok := sessions.Get("room-3")
	if !ok {
		t.Fatalf("expected session for room-3")
	}
	if len(session.Components) != rounds {
		t.Fatalf("expected %d components, got %d", rounds, len(session.Components))
	}
}

func TestInvokeRejectsUnknownTool(t *testing.T) {
	server, _, _ := newAgentServer(t)
	defer server.Close()

	resp, err := http.Post(server.URL+"/invoke", "application/json",
		strings.NewReader(`{"room": "room-1", "tool": "launch_rocket"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown tool, got %d", resp.StatusCode)
	}
}

func TestInvokeValidatesRequest(t *testing.T) {
	server, _, _ := newAgentServer(t)
	defer server.Close()

	resp, err := http.Post(server.URL+"/invoke", "application/json", strings.NewReader(`{"tool": "get_quiz_status"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing room, got %d", resp.StatusCode)
	}
}
