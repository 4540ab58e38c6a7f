// Package rpc bridges tool calls to the single remote frontend peer:
// participant resolution plus one-shot correlated request/response calls
// with a hard timeout and a normalized error taxonomy.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vyna-tutor-agent/internal/protocol"
)

// Participant is a remote peer connected to the room.
type Participant interface {
	Identity() string
}

// Room is the transport the gateway sends through. RemoteParticipants
// must reflect current membership on every call; the gateway never
// caches it.
type Room interface {
	RemoteParticipants() []Participant
	// PerformRPC sends one request to one peer and blocks until a reply
	// arrives or ctx expires. Late replies are discarded by the transport.
	PerformRPC(ctx context.Context, destination string, method string, payload string) (string, error)
}

// ErrNoPeer is returned when the room has no remote participant to target.
var ErrNoPeer = errors.New("no remote participant in room")

// ResolveTarget picks the frontend peer: the first participant in the
// room's enumeration order. The protocol is single-peer; rooms with more
// than one remote participant are not disambiguated.
func ResolveTarget(room Room) (Participant, error) {
	if room == nil {
		return nil, ErrNoPeer
	}
	participants := room.RemoteParticipants()
	if len(participants) == 0 {
		return nil, ErrNoPeer
	}
	return participants[0], nil
}

// ErrorKind classifies gateway failures.
type ErrorKind int

const (
	KindTimeout ErrorKind = iota
	KindTransport
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the uniform failure type callers of the gateway see. Raw
// transport and parse failures never escape it.
type Error struct {
	Kind   ErrorKind
	Method string
	cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc %s: %s: %v", e.Method, e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// DefaultTimeout is what shipped frontends are tuned to; keep it at 4s
// unless every client is updated together.
const DefaultTimeout = 4 * time.Second

// Gateway performs single correlated exchanges against one peer. It is
// stateless and safe for concurrent use across sessions.
type Gateway struct {
	timeout time.Duration
}

func NewGateway(timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{timeout: timeout}
}

// Call sends exactly one request and waits for the decoded reply. No
// retries: a duplicate send could double a frontend side effect, so
// re-triggering is left to the user. On timeout the in-flight call is
// abandoned, not cancelled remotely.
func (g *Gateway) Call(ctx context.Context, room Room, target Participant, method string, req any) (protocol.ActionResponse, error) {
	payload, err := protocol.Encode(req)
	if err != nil {
		return protocol.ActionResponse{}, &Error{Kind: KindDecode, Method: method, cause: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := room.PerformRPC(callCtx, target.Identity(), method, payload)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return protocol.ActionResponse{}, &Error{Kind: KindTimeout, Method: method, cause: err}
		}
		return protocol.ActionResponse{}, &Error{Kind: KindTransport, Method: method, cause: err}
	}

	resp, err := protocol.DecodeResponse(raw)
	if err != nil {
		return protocol.ActionResponse{}, &Error{Kind: KindDecode, Method: method, cause: err}
	}
	return resp, nil
}

// IsKind reports whether err is a gateway error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var rpcErr *Error
	return errors.As(err, &rpcErr) && rpcErr.Kind == kind
}
