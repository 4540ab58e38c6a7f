package memory

import (
	"testing"
	"time"

	"vyna-tutor-agent/internal/app"
)

func TestSessionStoreReusesSessions(t *testing.T) {
	catalogRepo := NewCatalogRepository(NewStaticCatalogLoader(nil), time.Minute)
	store := NewSessionStore(func(string) *app.SessionState {
		return app.NewSessionState(catalogRepo)
	})

	session := store.GetOrCreate("room-1")
	if again := store.GetOrCreate("room-1"); again != session {
		t.Fatalf("expected the same session instance per room")
	}

	if _, ok := store.Get("room-2"); ok {
		t.Fatalf("expected no session for unknown room")
	}

	store.Delete("room-1")
	if _, ok := store.Get("room-1"); ok {
		t.Fatalf("expected session removed")
	}
}
