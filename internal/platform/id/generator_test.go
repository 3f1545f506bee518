package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	g := NewUUIDGenerator()

	first, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected uuid, got %q: %v", first, err)
	}

	second, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}

func TestStaticGenerator_Exhausts(t *testing.T) {
	g := NewStaticGenerator("a")
	if got, err := g.NewID(); err != nil || got != "a" {
		t.Fatalf("unexpected first id: %q err=%v", got, err)
	}
	if _, err := g.NewID(); err == nil {
		t.Fatalf("expected exhausted error")
	}
}
