package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// peer is one connected frontend endpoint. All writes go through the
// send channel so only the writer goroutine touches the connection.
type peer struct {
	identity string
	conn     *websocket.Conn
	sendCh   chan frame
	closed   chan struct{}

	mu      sync.Mutex
	pending map[string]chan string
}

func newPeer(identity string, conn *websocket.Conn) *peer {
	return &peer{
		identity: identity,
		conn:     conn,
		sendCh:   make(chan frame, 16),
		closed:   make(chan struct{}),
		pending:  make(map[string]chan string),
	}
}

func (p *peer) Identity() string { return p.identity }

func (p *peer) send(f frame) error {
	select {
	case p.sendCh <- f:
		return nil
	case <-p.closed:
		return websocket.ErrCloseSent
	}
}

func (p *peer) registerPending(id string) <-chan string {
	ch := make(chan string, 1)
	p.mu.Lock()
	p.pending[id] = ch
	p.mu.Unlock()
	return ch
}

func (p *peer) dropPending(id string) {
	p.mu.Lock()
	delete(p.pending, id)
	p.mu.Unlock()
}

// deliver routes a response frame to its waiter. Responses whose waiter
// already timed out are discarded.
func (p *peer) deliver(id, payload string) {
	p.mu.Lock()
	ch, ok := p.pending[id]
	p.mu.Unlock()
	if !ok {
		log.Printf("ws: discarding late response %s from %s", id, p.identity)
		return
	}
	select {
	case ch <- payload:
	default:
	}
}

// WSHandler upgrades frontend connections and attaches them as room peers.
type WSHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *Hub) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS wires one frontend peer into its room: a writer goroutine
// drains the send channel while the read loop dispatches inbound frames
// (responses to waiters, requests to agent-side handlers).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomName := r.URL.Query().Get("room")
	identity := r.URL.Query().Get("identity")
	if roomName == "" || identity == "" {
		http.Error(w, "missing room or identity", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	room := h.hub.GetOrCreate(roomName)
	p := newPeer(identity, conn)
	room.addPeer(p)
	log.Printf("ws: %s joined room %s", identity, roomName)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case f := <-p.sendCh:
				if err := conn.WriteJSON(f); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			case <-p.closed:
				return
			}
		}
	}()

	for {
		var inbound frame
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case frameRPCResponse:
			p.deliver(inbound.ID, inbound.Payload)
		case frameRPCRequest:
			// Run handlers off the read loop: a handler waits on the
			// session lock, and blocking here would stall response
			// delivery for an in-flight agent call.
			go h.handleAgentRequest(room, p, inbound)
		default:
			log.Printf("ws: unsupported frame type %q from %s", inbound.Type, identity)
		}
	}

	close(p.closed)
	<-writerDone
	room.removePeer(p)
	h.hub.dropIfEmpty(roomName)
	log.Printf("ws: %s left room %s", identity, roomName)
}

// handleAgentRequest runs a frontend-initiated call against a registered
// agent-side handler and sends the result back on the same id. Handlers
// mutate session state, so they take the room's session lock and
// serialize against tool invocations.
func (h *WSHandler) handleAgentRequest(room *Room, p *peer, req frame) {
	handler, ok := room.handler(req.Method)
	var result string
	if ok {
		lock := h.hub.SessionLock(room.Name())
		lock.Lock()
		result = handler(req.Payload)
		lock.Unlock()
	} else {
		result = "error: unknown method " + req.Method
	}

	payload, err := json.Marshal(map[string]string{"result": result})
	if err != nil {
		return
	}
	_ = p.send(frame{Type: frameRPCResponse, ID: req.ID, Payload: string(payload)})
}
