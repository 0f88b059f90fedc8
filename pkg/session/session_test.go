package session

import (
	"context"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore(ttl time.Duration) (*Store, *clock) {
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	st := NewStore(ttl)
	st.now = c.now
	return st, c
}

func TestCreateAndGet(t *testing.T) {
	st, _ := newTestStore(time.Minute)

	s := st.Create()
	if s.ID == "" {
		t.Fatal("expected session id")
	}

	got, ok := st.Get(s.ID)
	if !ok || got != s {
		t.Fatalf("expected to find session %s", s.ID)
	}

	if _, ok := st.Get("unknown"); ok {
		t.Error("unknown id should not be found")
	}
}

func TestEnsure(t *testing.T) {
	st, _ := newTestStore(time.Minute)

	s, created := st.Ensure("")
	if !created {
		t.Error("empty id should create a session")
	}

	again, created := st.Ensure(s.ID)
	if created || again != s {
		t.Error("known id should return the existing session")
	}

	_, created = st.Ensure("stale-cookie")
	if !created {
		t.Error("unknown id should create a session")
	}
	if st.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", st.Len())
	}
}

func TestExpiry(t *testing.T) {
	st, c := newTestStore(time.Minute)
	s := st.Create()

	c.t = c.t.Add(30 * time.Second)
	if _, ok := st.Get(s.ID); !ok {
		t.Fatal("session should still be alive")
	}

	// Get refreshed it, so another 59s is still within the TTL
	c.t = c.t.Add(59 * time.Second)
	if _, ok := st.Get(s.ID); !ok {
		t.Fatal("touched session should still be alive")
	}

	c.t = c.t.Add(2 * time.Minute)
	if _, ok := st.Get(s.ID); ok {
		t.Error("idle session should have expired")
	}
	if st.Len() != 0 {
		t.Errorf("expired session should be dropped on access, %d left", st.Len())
	}
}

func TestSweepKeepsProcessingSessions(t *testing.T) {
	st, c := newTestStore(time.Minute)

	idle := st.Create()
	busy := st.Create()
	if err := busy.Form.Fill("https://docs.google.com/document/d/abc", "Enhance skills section", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := busy.Form.Begin(); err != nil {
		t.Fatal(err)
	}

	c.t = c.t.Add(time.Hour)

	if n := st.Sweep(); n != 1 {
		t.Errorf("expected 1 removed session, got %d", n)
	}
	if _, ok := st.Get(idle.ID); ok {
		t.Error("idle session should be gone")
	}
	if _, ok := st.Get(busy.ID); !ok {
		t.Error("processing session should be kept")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	st := NewStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- st.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewStoreDefaultTTL(t *testing.T) {
	if st := NewStore(0); st.ttl != DefaultTTL {
		t.Errorf("expected default ttl, got %v", st.ttl)
	}
}
