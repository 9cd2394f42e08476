package core

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"slices"

	platformcore "github.com/vovakirdan/bubblepop/internal/core"
)

// Lattice invariant violations reported by Insert.
var (
	ErrDuplicateID  = errors.New("bubble id already on the grid")
	ErrCellOccupied = errors.New("cell already occupied")
	ErrOffLattice   = errors.New("position is not a lattice cell center")
)

// Tolerance when checking that a position sits on a cell center.
const latticeEpsilon = 1e-6

// Grid owns the placed bubbles.
// Bubbles are kept in insertion order so every traversal is deterministic.
type Grid struct {
	lattice Lattice
	bubbles []Bubble
	cells   map[Cell]BubbleID
}

// NewGrid creates an empty grid.
func NewGrid(l Layout) *Grid {
	return &Grid{
		lattice: NewLattice(l),
		cells:   make(map[Cell]BubbleID),
	}
}

// Lattice returns the addressing scheme currently in effect.
func (g *Grid) Lattice() Lattice {
	return g.lattice
}

// Layout returns the fixed layout constants.
func (g *Grid) Layout() Layout {
	return g.lattice.Layout
}

// Bounds returns the play area rectangle.
func (g *Grid) Bounds() platformcore.Rect {
	return g.lattice.Bounds()
}

// Len returns the number of placed bubbles.
func (g *Grid) Len() int {
	return len(g.bubbles)
}

// Bubbles returns a copy of the placed bubbles in insertion order.
func (g *Grid) Bubbles() []Bubble {
	return slices.Clone(g.bubbles)
}

// Get returns the bubble with the given id.
func (g *Grid) Get(id BubbleID) (Bubble, bool) {
	i := g.indexOf(id)
	if i < 0 {
		return Bubble{}, false
	}
	return g.bubbles[i], true
}

// CellOf returns the cell a bubble occupies.
func (g *Grid) CellOf(b Bubble) Cell {
	return g.lattice.NearestCell(b.Pos)
}

// Occupied reports whether a bubble sits in the cell.
func (g *Grid) Occupied(c Cell) bool {
	_, ok := g.cells[c]
	return ok
}

func (g *Grid) indexOf(id BubbleID) int {
	return slices.IndexFunc(g.bubbles, func(b Bubble) bool { return b.ID == id })
}

// GenerateInitialLayout replaces all bubbles with rows [0, rows) filled
// with random normal colors.
func (g *Grid) GenerateInitialLayout(rng Source, ids *IDSource, rows int) {
	g.bubbles = g.bubbles[:0]
	clear(g.cells)
	g.lattice.Phase = 0
	for row := range rows {
		g.fillRow(row, rng, ids)
	}
}

func (g *Grid) fillRow(row int, rng Source, ids *IDSource) {
	for col := range g.lattice.RowLen(row) {
		c := Cell{Row: row, Col: col}
		b := ids.NewBubble(RandomNormalColor(rng), g.lattice.ToPixel(c))
		g.bubbles = append(g.bubbles, b)
		g.cells[c] = b.ID
	}
}

// Insert places a bubble. Its position must already be snapped to a free cell.
func (g *Grid) Insert(b Bubble) error {
	if g.indexOf(b.ID) >= 0 {
		return fmt.Errorf("grid: insert bubble %d: %w", b.ID, ErrDuplicateID)
	}
	c := g.lattice.NearestCell(b.Pos)
	if b.Pos.Dist(g.lattice.ToPixel(c)) > latticeEpsilon {
		return fmt.Errorf("grid: insert bubble %d at (%.2f, %.2f): %w", b.ID, b.Pos.X, b.Pos.Y, ErrOffLattice)
	}
	if owner, ok := g.cells[c]; ok {
		return fmt.Errorf("grid: insert bubble %d at %v held by %d: %w", b.ID, c, owner, ErrCellOccupied)
	}
	g.bubbles = append(g.bubbles, b)
	g.cells[c] = b.ID
	return nil
}

// Remove deletes the bubbles with the given ids. Unknown ids are ignored.
// Returns the number of bubbles actually removed.
func (g *Grid) Remove(ids ...BubbleID) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(IDSet, len(ids))
	for _, id := range ids {
		drop.Add(id)
	}
	before := len(g.bubbles)
	g.bubbles = slices.DeleteFunc(g.bubbles, func(b Bubble) bool {
		if !drop.Has(b.ID) {
			return false
		}
		delete(g.cells, g.lattice.NearestCell(b.Pos))
		return true
	})
	return before - len(g.bubbles)
}

// RemoveSet deletes every bubble in the set.
func (g *Grid) RemoveSet(s IDSet) int {
	return g.Remove(s.Sorted()...)
}

// Query returns the bubbles whose center lies within radius of p (inclusive).
func (g *Grid) Query(p platformcore.Vec, radius float64) []Bubble {
	var found []Bubble
	for _, b := range g.bubbles {
		if b.Pos.Dist(p) <= radius {
			found = append(found, b)
		}
	}
	return found
}

// adjacent returns the bubbles touching b that are not yet in seen.
func (g *Grid) adjacent(b Bubble, seen IDSet) []Bubble {
	var out []Bubble
	for _, o := range g.bubbles {
		if o.ID == b.ID || seen.Has(o.ID) {
			continue
		}
		if IsAdjacent(b.Pos, o.Pos, g.lattice.Diameter) {
			out = append(out, o)
		}
	}
	return out
}

// FindCluster collects the bubbles of the given color connected to seed,
// seed included. A rainbow match color accepts every visited bubble.
// The seed does not need to be placed on the grid.
func (g *Grid) FindCluster(color Color, seed Bubble) IDSet {
	cluster := make(IDSet)
	queue := []Bubble{seed}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cluster.Has(cur.ID) {
			continue
		}
		if cur.ID != seed.ID && cur.Color != color && color != ColorRainbow {
			continue
		}
		cluster.Add(cur.ID)
		queue = append(queue, g.adjacent(cur, cluster)...)
	}
	return cluster
}

// Anchored reports whether a bubble touches the ceiling row.
func (g *Grid) Anchored(b Bubble) bool {
	return b.Pos.Y <= g.lattice.Top+g.lattice.Diameter
}

// FindUnsupported returns the bubbles with no adjacency path to the ceiling.
func (g *Grid) FindUnsupported() IDSet {
	supported := make(IDSet)
	var queue []Bubble
	for _, b := range g.bubbles {
		if g.Anchored(b) {
			queue = append(queue, b)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if supported.Has(cur.ID) {
			continue
		}
		supported.Add(cur.ID)
		queue = append(queue, g.adjacent(cur, supported)...)
	}

	floating := make(IDSet)
	for _, b := range g.bubbles {
		if !supported.Has(b.ID) {
			floating.Add(b.ID)
		}
	}
	return floating
}

// CreepDown shifts every bubble one row down and spawns a fresh ceiling row.
// The new row follows the flipped phase, so it alternates between narrow
// (Columns-1 bubbles) and wide, starting narrow on a fresh board.
func (g *Grid) CreepDown(rng Source, ids *IDSource) {
	dy := g.lattice.RowHeight()
	for i := range g.bubbles {
		g.bubbles[i].Pos.Y += dy
	}
	g.lattice.Phase = 1 - g.lattice.Phase

	clear(g.cells)
	for _, b := range g.bubbles {
		g.cells[g.lattice.NearestCell(b.Pos)] = b.ID
	}
	g.fillRow(0, rng, ids)
}

// Lowest returns the largest bubble y coordinate, or -Inf for an empty grid.
func (g *Grid) Lowest() float64 {
	low := math.Inf(-1)
	for _, b := range g.bubbles {
		low = max(low, b.Pos.Y)
	}
	return low
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make(map[Cell]BubbleID, len(g.cells))
	for c, id := range g.cells {
		cells[c] = id
	}
	return &Grid{
		lattice: g.lattice,
		bubbles: slices.Clone(g.bubbles),
		cells:   cells,
	}
}

// Hash returns a hash of the grid contents for determinism checks.
func (g *Grid) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "P:%d;", g.lattice.Phase)
	for _, b := range g.bubbles {
		c := g.CellOf(b)
		fmt.Fprintf(h, "%d:%d:%d:%d,", b.ID, b.Color, c.Row, c.Col)
	}
	return h.Sum64()
}
