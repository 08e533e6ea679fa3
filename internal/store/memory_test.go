package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/catch/internal/catch"
)

func TestMemoryStoreSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get unknown err = %v", err)
	}
	if err := st.Save(ctx, &Session{}); err == nil {
		t.Fatal("Save without id should fail")
	}

	s := &Session{ID: "r1", Owner: "p1", Round: catch.NewRound(catch.DefaultParams(), nil)}
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, "r1")
	if err != nil || got != s {
		t.Fatalf("Get = %p, %v; want %p", got, err, s)
	}
	if err := st.Delete(ctx, "r1"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := &memory{sessions: make(map[string]*Session), now: func() time.Time { return now }}

	_ = m.Save(ctx, &Session{ID: "old"})
	now = now.Add(time.Hour)
	_ = m.Save(ctx, &Session{ID: "new"})

	if n := m.Sweep(ctx, now.Add(-30*time.Minute)); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if _, err := m.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Fatal("old session survived sweep")
	}
	if _, err := m.Get(ctx, "new"); err != nil {
		t.Fatal("new session was swept")
	}
}
