package core_test

import (
	"testing"

	platformcore "github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop/core"
)

// fixedSource replays a fixed sequence of values, wrapping around.
type fixedSource struct {
	values []int
	i      int
}

func (f *fixedSource) Intn(n int) int {
	if len(f.values) == 0 {
		return 0
	}
	v := f.values[f.i%len(f.values)]
	f.i++
	return v % n
}

// constSource always picks the same color.
func constSource(c core.Color) *fixedSource {
	return &fixedSource{values: []int{int(c)}}
}

// place inserts a bubble of color c at cell and fails the test on error.
func place(t *testing.T, g *core.Grid, ids *core.IDSource, c core.Color, cell core.Cell) core.Bubble {
	t.Helper()
	b := ids.NewBubble(c, g.Lattice().ToPixel(cell))
	if err := g.Insert(b); err != nil {
		t.Fatalf("Insert(%v at %v) failed: %v", c, cell, err)
	}
	return b
}

// cellsOf returns the cells of the given bubble ids.
func cellsOf(g *core.Grid, set core.IDSet) map[core.Cell]bool {
	out := make(map[core.Cell]bool, set.Len())
	for _, id := range set.Sorted() {
		if b, ok := g.Get(id); ok {
			out[g.CellOf(b)] = true
		}
	}
	return out
}

// aimAt returns a point straight up from p, offset horizontally by dx.
func aimAt(p platformcore.Vec, dx float64) platformcore.Vec {
	return platformcore.V(p.X+dx, p.Y-100)
}
