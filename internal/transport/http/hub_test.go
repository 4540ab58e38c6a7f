package http

import (
	"sync"
	"testing"
)

func TestGetOrCreateSeedsBeforePublishing(t *testing.T) {
	hub := NewHub(func(room *Room) {
		room.RegisterHandler("agent.ping", func(string) string { return "pong" })
	})

	// Every concurrent joiner must get a fully seeded room; none may see
	// it before its handlers are registered.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room := hub.GetOrCreate("room-1")
			if _, ok := room.handler("agent.ping"); !ok {
				t.Errorf("room visible before handlers were registered")
			}
		}()
	}
	wg.Wait()
}

func TestSessionLockIsStablePerRoom(t *testing.T) {
	hub := NewHub(nil)

	if hub.SessionLock("room-1") != hub.SessionLock("room-1") {
		t.Fatalf("expected one lock instance per room")
	}
	if hub.SessionLock("room-1") == hub.SessionLock("room-2") {
		t.Fatalf("expected distinct locks for distinct rooms")
	}

	// The lock survives the room being dropped, so a reconnecting session
	// keeps serializing against late invocations.
	lock := hub.SessionLock("room-1")
	hub.GetOrCreate("room-1")
	hub.dropIfEmpty("room-1")
	if hub.SessionLock("room-1") != lock {
		t.Fatalf("expected lock to outlive the room")
	}
}
