package rpc

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeParticipant string

func (p fakeParticipant) Identity() string { return string(p) }

type fakeRoom struct {
	participants []Participant
	reply        string
	err          error
	block        bool

	lastMethod  string
	lastPayload string
	calls       int
}

func (r *fakeRoom) RemoteParticipants() []Participant { return r.participants }

func (r *fakeRoom) PerformRPC(ctx context.Context, destination, method, payload string) (string, error) {
	r.calls++
	r.lastMethod = method
	r.lastPayload = payload
	if r.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}

func TestResolveTargetNoPeer(t *testing.T) {
	if _, err := ResolveTarget(&fakeRoom{}); err != ErrNoPeer {
		t.Fatalf("expected ErrNoPeer, got %v", err)
	}
	if _, err := ResolveTarget(nil); err != ErrNoPeer {
		t.Fatalf("expected ErrNoPeer for nil room, got %v", err)
	}
}

func TestResolveTargetPicksFirst(t *testing.T) {
	room := &fakeRoom{participants: []Participant{fakeParticipant("front"), fakeParticipant("observer")}}
	target, err := ResolveTarget(room)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if target.Identity() != "front" {
		t.Fatalf("expected first participant, got %s", target.Identity())
	}
}

func TestGatewayCallSuccess(t *testing.T) {
	room := &fakeRoom{
		participants: []Participant{fakeParticipant("front")},
		reply:        `{"ok": true}`,
	}
	gateway := NewGateway(time.Second)

	resp, err := gateway.Call(context.Background(), room, fakeParticipant("front"), "client.quiz", map[string]string{"action": "start_quiz"})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !resp.OK {
		t.Fatalf("expected ok response")
	}
	if room.calls != 1 || room.lastMethod != "client.quiz" {
		t.Fatalf("expected exactly one send to client.quiz, calls=%d method=%s", room.calls, room.lastMethod)
	}
}

func TestGatewayCallBusinessRejection(t *testing.T) {
	room := &fakeRoom{
		participants: []Participant{fakeParticipant("front")},
		reply:        `{"ok": false, "error": "quiz panel hidden"}`,
	}
	gateway := NewGateway(time.Second)

	resp, err := gateway.Call(context.Background(), room, fakeParticipant("front"), "client.quiz", struct{}{})
	if err != nil {
		t.Fatalf("ok=false is a business outcome, not a gateway error: %v", err)
	}
	if resp.OK || resp.Error != "quiz panel hidden" {
		t.Fatalf("expected refusal surfaced, got %+v", resp)
	}
}

func TestGatewayCallTimeout(t *testing.T) {
	room := &fakeRoom{
		participants: []Participant{fakeParticipant("front")},
		block:        true,
	}
	gateway := NewGateway(20 * time.Millisecond)

	_, err := gateway.Call(context.Background(), room, fakeParticipant("front"), "client.quiz", struct{}{})
	if !IsKind(err, KindTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	// No retries: exactly one exchange was attempted.
	if room.calls != 1 {
		t.Fatalf("expected one attempt, got %d", room.calls)
	}
}

func TestGatewayCallTransportError(t *testing.T) {
	room := &fakeRoom{
		participants: []Participant{fakeParticipant("front")},
		err:          errors.New("connection reset"),
	}
	gateway := NewGateway(time.Second)

	_, err := gateway.Call(context.Background(), room, fakeParticipant("front"), "client.quiz", struct{}{})
	if !IsKind(err, KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestGatewayCallDecodeError(t *testing.T) {
	room := &fakeRoom{
		participants: []Participant{fakeParticipant("front")},
		reply:        "<html>not json</html>",
	}
	gateway := NewGateway(time.Second)

	_, err := gateway.Call(context.Background(), room, fakeParticipant("front"), "client.quiz", struct{}{})
	if !IsKind(err, KindDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
