package core

import (
	"slices"

	platformcore "github.com/vovakirdan/bubblepop/internal/core"
)

// BubbleID identifies a bubble for its whole lifetime. IDs are never reused.
type BubbleID uint64

// Bubble is a single bubble. Identity is the ID; color and position
// play no part in equality.
type Bubble struct {
	ID    BubbleID
	Color Color
	Pos   platformcore.Vec
}

// IDSource hands out bubble identifiers from a monotonic counter.
type IDSource struct {
	next BubbleID
}

// Next returns a fresh identifier.
func (s *IDSource) Next() BubbleID {
	s.next++
	return s.next
}

// NewBubble creates a bubble with a fresh identifier.
func (s *IDSource) NewBubble(c Color, pos platformcore.Vec) Bubble {
	return Bubble{ID: s.Next(), Color: c, Pos: pos}
}

// IDSet is a set of bubble identifiers.
type IDSet map[BubbleID]struct{}

// Add inserts an id into the set.
func (s IDSet) Add(id BubbleID) {
	s[id] = struct{}{}
}

// Has reports whether the id is in the set.
func (s IDSet) Has(id BubbleID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in the set.
func (s IDSet) Len() int {
	return len(s)
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []BubbleID {
	ids := make([]BubbleID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Source is the random source used for color selection.
// *math/rand.Rand satisfies it; tests can supply a fixed sequence.
type Source interface {
	Intn(n int) int
}

// RandomNormalColor picks one of the normal colors uniformly.
func RandomNormalColor(rng Source) Color {
	colors := NormalColors()
	return colors[rng.Intn(len(colors))]
}
