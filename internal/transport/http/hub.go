// Package http hosts the agent's network surface: the websocket hub the
// frontend peers connect to (carrying correlated RPC frames) and the
// HTTP endpoint the conversational engine invokes tools through.
package http

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"vyna-tutor-agent/internal/rpc"
)

// frame is the websocket wire envelope. Agent→peer requests and
// peer→agent requests share the same shape; responses echo the id.
type frame struct {
	Type    string `json:"type"` // "rpc_request" or "rpc_response"
	ID      string `json:"id"`
	Method  string `json:"method,omitempty"`
	Payload string `json:"payload,omitempty"`
}

const (
	frameRPCRequest  = "rpc_request"
	frameRPCResponse = "rpc_response"
)

// Room tracks the peers connected under one room name and performs
// correlated RPC against them. It satisfies rpc.Room.
type Room struct {
	name string

	mu       sync.RWMutex
	peers    []*peer
	handlers map[string]func(payload string) string
}

func newRoom(name string) *Room {
	return &Room{
		name:     name,
		handlers: make(map[string]func(payload string) string),
	}
}

func (r *Room) Name() string { return r.name }

// RegisterHandler installs an agent-side method the frontend can invoke.
func (r *Room) RegisterHandler(method string, handler func(payload string) string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[method] = handler
}

func (r *Room) handler(method string) (func(payload string) string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[method]
	return h, ok
}

// RemoteParticipants returns current peers in join order. Queried fresh
// on every call so peer churn between tool calls is tolerated.
func (r *Room) RemoteParticipants() []rpc.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]rpc.Participant, len(r.peers))
	for i, p := range r.peers {
		out[i] = p
	}
	return out
}

// PerformRPC sends one request frame to the named peer and waits for the
// matching response or ctx expiry. A response arriving after expiry is
// dropped by the peer's read loop.
func (r *Room) PerformRPC(ctx context.Context, destination, method, payload string) (string, error) {
	r.mu.RLock()
	var target *peer
	for _, p := range r.peers {
		if p.identity == destination {
			target = p
			break
		}
	}
	r.mu.RUnlock()
	if target == nil {
		return "", fmt.Errorf("participant %s not connected", destination)
	}

	id := uuid.NewString()
	reply := target.registerPending(id)
	defer target.dropPending(id)

	if err := target.send(frame{Type: frameRPCRequest, ID: id, Method: method, Payload: payload}); err != nil {
		return "", err
	}

	select {
	case raw := <-reply:
		return raw, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-target.closed:
		return "", fmt.Errorf("participant %s disconnected", destination)
	}
}

func (r *Room) addPeer(p *peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers = append(r.peers, p)
}

func (r *Room) removePeer(p *peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.peers {
		if existing == p {
			r.peers = append(r.peers[:i], r.peers[i+1:]...)
			return
		}
	}
}

// Hub is the registry of rooms. onNewRoom runs once per room, before the
// room is visible to any lookup, so the server can seed the session and
// its agent-side RPC handlers without a window where the room answers
// "unknown method".
type Hub struct {
	onNewRoom func(room *Room)

	mu    sync.RWMutex
	rooms map[string]*Room

	locksMu      sync.Mutex
	sessionLocks map[string]*sync.Mutex
}

func NewHub(onNewRoom func(room *Room)) *Hub {
	return &Hub{
		onNewRoom:    onNewRoom,
		rooms:        make(map[string]*Room),
		sessionLocks: make(map[string]*sync.Mutex),
	}
}

// SessionLock returns the mutex serializing session mutations for one
// room. Both the tool-invoke endpoint and the websocket agent-side
// handlers go through it, so at most one invocation touches a session's
// state at a time. Locks are keyed by name and outlive the room itself;
// a session can outlive its peers.
func (h *Hub) SessionLock(roomName string) *sync.Mutex {
	h.locksMu.Lock()
	defer h.locksMu.Unlock()
	lock, ok := h.sessionLocks[roomName]
	if !ok {
		lock = &sync.Mutex{}
		h.sessionLocks[roomName] = lock
	}
	return lock
}

// Room returns an existing room without creating one.
func (h *Hub) Room(name string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[name]
	return room, ok
}

// GetOrCreate returns the room for a name, creating and seeding it first
// if needed. The room is only inserted after onNewRoom has finished, so
// concurrent joiners never see a half-seeded room.
func (h *Hub) GetOrCreate(name string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[name]
	if !ok {
		room = newRoom(name)
		if h.onNewRoom != nil {
			h.onNewRoom(room)
		}
		h.rooms[name] = room
	}
	return room
}

func (h *Hub) dropIfEmpty(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[name]
	if !ok {
		return
	}
	room.mu.RLock()
	empty := len(room.peers) == 0
	room.mu.RUnlock()
	if empty {
		delete(h.rooms, name)
		log.Printf("hub: dropped empty room %s", name)
	}
}
