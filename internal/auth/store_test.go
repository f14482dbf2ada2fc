package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	s, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}

	if tok, _ := s.Token(context.Background()); tok != "" {
		t.Errorf("fresh store token = %q", tok)
	}

	if err := s.Save("  abc123  "); err != nil {
		t.Fatal(err)
	}
	if tok, _ := s.Token(context.Background()); tok != "abc123" {
		t.Errorf("token = %q, want trimmed abc123", tok)
	}

	// A new store over the same file sees the persisted token.
	reopened, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if tok, _ := reopened.Token(context.Background()); tok != "abc123" {
		t.Errorf("reloaded token = %q", tok)
	}
}

func TestStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	s, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save("tok"); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if tok, _ := s.Token(context.Background()); tok != "" {
		t.Errorf("token after clear = %q", tok)
	}
	// Clearing an already-clear store is fine.
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
}

func TestStoreRequiresPath(t *testing.T) {
	if _, err := NewStore("  "); !errors.Is(err, ErrStorePathRequired) {
		t.Fatalf("err = %v, want ErrStorePathRequired", err)
	}
}
