// ABOUTME: Identifier generation for sets, exercises, workouts, and messages.
// ABOUTME: UUIDGenerator is the default; SequenceGenerator gives deterministic ids.
package models

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers unique for the life of the session.
type IDGenerator interface {
	Next() string
}

// UUIDGenerator generates random v4 UUIDs.
type UUIDGenerator struct{}

// Next returns a new random UUID string.
func (UUIDGenerator) Next() string {
	return uuid.NewString()
}

// SequenceGenerator yields prefix-1, prefix-2, ... and is safe for concurrent use.
type SequenceGenerator struct {
	Prefix string

	mu sync.Mutex
	n  int
}

// NewSequenceGenerator creates a SequenceGenerator with the given prefix.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix}
}

// Next returns the next id in the sequence.
func (g *SequenceGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.Prefix, g.n)
}

// ShortID returns the first 8 characters of an id for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
