package prefs

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetSetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := s.Set("theme", "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, err := s.Get("theme")
	if err != nil || !ok || v != "dark" {
		t.Fatalf("Get = %q ok=%v err=%v", v, ok, err)
	}

	// Upsert replaces the value.
	if err := s.Set("theme", "light"); err != nil {
		t.Fatalf("Set (update) failed: %v", err)
	}
	v, _, _ = s.Get("theme")
	if v != "light" {
		t.Errorf("value after update = %q", v)
	}
}

func TestGuideAcknowledgement(t *testing.T) {
	s := newTestStore(t)

	if s.Acknowledged("guide:suggest:tighten") {
		t.Error("fresh guide key should be unacknowledged")
	}
	if err := s.Acknowledge("guide:suggest:tighten"); err != nil {
		t.Fatalf("Acknowledge failed: %v", err)
	}
	if !s.Acknowledged("guide:suggest:tighten") {
		t.Error("acknowledgement not persisted")
	}
	if s.Acknowledged("guide:suggest:clarify") {
		t.Error("acknowledgement leaked across keys")
	}
}

func TestLastArticle(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.LastArticle(); ok {
		t.Error("expected no last article initially")
	}
	if err := s.SetLastArticle("a42"); err != nil {
		t.Fatalf("SetLastArticle failed: %v", err)
	}
	id, ok := s.LastArticle()
	if !ok || id != "a42" {
		t.Errorf("LastArticle = %q ok=%v", id, ok)
	}
}
