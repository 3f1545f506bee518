package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates primary keys for new records.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues random (v4) UUIDs, matching the uuid columns of the backend.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}

	return v.String(), nil
}

// StaticGenerator hands out a fixed sequence of ids. Used in tests and seeds.
type StaticGenerator struct {
	ids  []string
	next int
}

func NewStaticGenerator(ids ...string) *StaticGenerator {
	return &StaticGenerator{ids: append([]string(nil), ids...)}
}

func (g *StaticGenerator) NewID() (string, error) {
	if g.next >= len(g.ids) {
		return "", fmt.Errorf("static generator exhausted after %d ids", len(g.ids))
	}
	out := g.ids[g.next]
	g.next++
	return out, nil
}
