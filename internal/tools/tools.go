// Package tools is the agent's tool surface: the operations the
// conversational engine can invoke by name. Every tool folds its outcome
// into a plain sentence and never returns an error, because the engine
// can only speak text back to the student.
package tools

import (
	"context"
	"errors"
	"log"

	"vyna-tutor-agent/internal/app"
	"vyna-tutor-agent/internal/protocol"
	"vyna-tutor-agent/internal/rpc"
)

// Methods holds the frontend RPC method names. They are collaborator
// defined; the defaults match the shipped web client.
type Methods struct {
	Quiz         string
	Canvas       string
	Illustration string
	Component    string
}

func DefaultMethods() Methods {
	return Methods{
		Quiz:         "client.quiz",
		Canvas:       "client.canvas",
		Illustration: "client.showIllustration",
		Component:    "client.component",
	}
}

// Toolset binds one session's state to the room it talks through. Room
// may be nil when no transport is attached; every tool degrades to a
// spoken reply in that case.
type Toolset struct {
	session *app.SessionState
	room    rpc.Room
	gateway *rpc.Gateway
	methods Methods
}

func NewToolset(session *app.SessionState, room rpc.Room, gateway *rpc.Gateway, methods Methods) *Toolset {
	return &Toolset{session: session, room: room, gateway: gateway, methods: methods}
}

// Session exposes the underlying state, e.g. for agent-side RPC handlers.
func (t *Toolset) Session() *app.SessionState { return t.session }

var errNoRoom = errors.New("no room attached")

// callFrontend resolves the peer and performs one gateway call. Failures
// come back as errNoRoom, rpc.ErrNoPeer, or *rpc.Error; callers translate
// each into their own wording.
func (t *Toolset) callFrontend(ctx context.Context, method string, req any) (protocol.ActionResponse, error) {
	if t.room == nil {
		return protocol.ActionResponse{}, errNoRoom
	}
	target, err := rpc.ResolveTarget(t.room)
	if err != nil {
		return protocol.ActionResponse{}, err
	}
	resp, err := t.gateway.Call(ctx, t.room, target, method, req)
	if err != nil {
		log.Printf("tools: rpc %s failed: %v", method, err)
		return protocol.ActionResponse{}, err
	}
	return resp, nil
}
