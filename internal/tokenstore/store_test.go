package tokenstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "gider.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTokenLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("fresh store expected ErrNoToken, got %v", err)
	}

	if err := s.Set(ctx, "tok-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx)
	if err != nil || got != "tok-1" {
		t.Fatalf("expected tok-1, got %q (err=%v)", got, err)
	}

	// Logging in again replaces the previous token
	if err := s.Set(ctx, "tok-2"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ = s.Get(ctx)
	if got != "tok-2" {
		t.Fatalf("expected tok-2 after replace, got %q", got)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := s.Get(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("cleared store expected ErrNoToken, got %v", err)
	}

	// Clearing twice is not an error
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("double clear: %v", err)
	}
}

func TestSetRejectsEmptyToken(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty token")
	}
}
