package core_test

import (
	"errors"
	"math/rand"
	"testing"

	platformcore "github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop/core"
)

func TestGenerateInitialLayout(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource
	rng := rand.New(rand.NewSource(42))

	g.GenerateInitialLayout(rng, &ids, 6)

	if g.Len() != 45 {
		t.Errorf("expected 45 bubbles in 6 rows, got %d", g.Len())
	}
	for _, b := range g.Bubbles() {
		if !b.Color.IsNormal() {
			t.Errorf("generated bubble %d has special color %v", b.ID, b.Color)
		}
		if c := g.CellOf(b); c.Row > 5 {
			t.Errorf("generated bubble %d in row %d", b.ID, c.Row)
		}
	}
	if low := g.Lowest(); low >= 450 {
		t.Errorf("initial board should not reach the danger line, lowest y = %f", low)
	}

	// Regenerating replaces the board
	g.GenerateInitialLayout(rng, &ids, 2)
	if g.Len() != 15 {
		t.Errorf("expected 15 bubbles after regenerating 2 rows, got %d", g.Len())
	}
}

func TestGridInsertErrors(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource
	b := place(t, g, &ids, core.ColorRed, core.Cell{Row: 0, Col: 0})

	err := g.Insert(b)
	if !errors.Is(err, core.ErrDuplicateID) {
		t.Errorf("duplicate insert: expected ErrDuplicateID, got %v", err)
	}

	other := ids.NewBubble(core.ColorBlue, b.Pos)
	err = g.Insert(other)
	if !errors.Is(err, core.ErrCellOccupied) {
		t.Errorf("occupied insert: expected ErrCellOccupied, got %v", err)
	}

	off := ids.NewBubble(core.ColorBlue, platformcore.V(b.Pos.X+5, b.Pos.Y))
	err = g.Insert(off)
	if !errors.Is(err, core.ErrOffLattice) {
		t.Errorf("off-lattice insert: expected ErrOffLattice, got %v", err)
	}

	if g.Len() != 1 {
		t.Errorf("failed inserts should not change the grid, got %d bubbles", g.Len())
	}
}

func TestGridRemoveIdempotent(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource
	a := place(t, g, &ids, core.ColorRed, core.Cell{Row: 0, Col: 0})
	b := place(t, g, &ids, core.ColorRed, core.Cell{Row: 0, Col: 1})

	if n := g.Remove(a.ID); n != 1 {
		t.Errorf("Remove() = %d, expected 1", n)
	}
	if n := g.Remove(a.ID, 999); n != 0 {
		t.Errorf("removing absent ids should be a no-op, removed %d", n)
	}
	if g.Occupied(core.Cell{Row: 0, Col: 0}) {
		t.Error("removed bubble's cell should be free")
	}
	if _, ok := g.Get(b.ID); !ok {
		t.Error("other bubble should remain")
	}

	// The freed cell accepts a new bubble
	place(t, g, &ids, core.ColorBlue, core.Cell{Row: 0, Col: 0})
}

func TestGridQueryInclusive(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource
	b := place(t, g, &ids, core.ColorRed, core.Cell{Row: 0, Col: 0})

	tests := []struct {
		name   string
		p      platformcore.Vec
		radius float64
		found  int
	}{
		{"center", b.Pos, 0, 1},
		{"exact radius", platformcore.V(b.Pos.X+10, b.Pos.Y), 10, 1},
		{"just outside", platformcore.V(b.Pos.X+10, b.Pos.Y), 9.99, 0},
		{"far away", platformcore.V(300, 300), 40, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(g.Query(tc.p, tc.radius)); got != tc.found {
				t.Errorf("Query() found %d, expected %d", got, tc.found)
			}
		})
	}
}

func TestFindCluster(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource

	seed := place(t, g, &ids, core.ColorRed, core.Cell{Row: 3, Col: 2})
	place(t, g, &ids, core.ColorRed, core.Cell{Row: 3, Col: 3})
	place(t, g, &ids, core.ColorRed, core.Cell{Row: 4, Col: 2})
	place(t, g, &ids, core.ColorBlue, core.Cell{Row: 3, Col: 1})
	// Not connected to the trio
	place(t, g, &ids, core.ColorRed, core.Cell{Row: 0, Col: 0})

	cluster := g.FindCluster(core.ColorRed, seed)
	if cluster.Len() != 3 {
		t.Fatalf("expected red cluster of 3, got %d", cluster.Len())
	}
	if !cluster.Has(seed.ID) {
		t.Error("cluster should contain the seed")
	}
	for _, id := range cluster.Sorted() {
		b, _ := g.Get(id)
		if b.Color != core.ColorRed {
			t.Errorf("cluster member %d has color %v", id, b.Color)
		}
	}
}

func TestFindClusterSeedAlwaysIncluded(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource
	seed := place(t, g, &ids, core.ColorBlue, core.Cell{Row: 0, Col: 0})
	place(t, g, &ids, core.ColorRed, core.Cell{Row: 0, Col: 1})

	cluster := g.FindCluster(core.ColorRed, seed)
	if !cluster.Has(seed.ID) {
		t.Error("cluster should contain the seed even when its color differs")
	}
	if cluster.Len() != 2 {
		t.Errorf("expected seed plus red neighbor, got %d", cluster.Len())
	}
}

func TestFindClusterRainbowWildcard(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource
	seed := place(t, g, &ids, core.ColorRainbow, core.Cell{Row: 0, Col: 0})
	place(t, g, &ids, core.ColorRed, core.Cell{Row: 0, Col: 1})
	place(t, g, &ids, core.ColorBlue, core.Cell{Row: 0, Col: 2})
	place(t, g, &ids, core.ColorGreen, core.Cell{Row: 1, Col: 2})
	place(t, g, &ids, core.ColorRed, core.Cell{Row: 5, Col: 5})

	if got := g.FindCluster(core.ColorRainbow, seed).Len(); got != 4 {
		t.Errorf("rainbow match should take the whole connected group, got %d", got)
	}

	// A rainbow bubble inside a cluster is not a wildcard on its own
	red := place(t, g, &ids, core.ColorRed, core.Cell{Row: 1, Col: 0})
	cluster := g.FindCluster(core.ColorRed, red)
	if cluster.Has(seed.ID) {
		t.Error("red match should not include the rainbow bubble")
	}
	if cluster.Len() != 2 {
		t.Errorf("expected the two touching reds, got %d", cluster.Len())
	}
}

func TestFindUnsupported(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource

	place(t, g, &ids, core.ColorRed, core.Cell{Row: 0, Col: 0})
	bridge := place(t, g, &ids, core.ColorBlue, core.Cell{Row: 1, Col: 0})
	place(t, g, &ids, core.ColorGreen, core.Cell{Row: 2, Col: 0})
	place(t, g, &ids, core.ColorGreen, core.Cell{Row: 2, Col: 1})
	place(t, g, &ids, core.ColorYellow, core.Cell{Row: 0, Col: 5})

	if got := g.FindUnsupported(); got.Len() != 0 {
		t.Fatalf("connected board should have no floating bubbles, got %d", got.Len())
	}

	g.Remove(bridge.ID)

	floating := cellsOf(g, g.FindUnsupported())
	want := map[core.Cell]bool{
		{Row: 2, Col: 0}: true,
		{Row: 2, Col: 1}: true,
	}
	if len(floating) != len(want) {
		t.Fatalf("expected %d floating bubbles, got %v", len(want), floating)
	}
	for c := range want {
		if !floating[c] {
			t.Errorf("expected %v to be floating", c)
		}
	}
}

func TestCreepDownKeepsLattice(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource
	rng := rand.New(rand.NewSource(7))
	g.GenerateInitialLayout(rng, &ids, 6)
	before := g.Len()
	firstY := g.Bubbles()[0].Pos.Y

	g.CreepDown(rng, &ids)

	if g.Lattice().Phase != 1 {
		t.Errorf("creep down should flip the lattice phase")
	}
	if g.Len() != before+7 {
		t.Errorf("expected a narrow ceiling row of 7, got %d new bubbles", g.Len()-before)
	}
	if dy := g.Bubbles()[0].Pos.Y - firstY; dy < 36.63 || dy > 36.65 {
		t.Errorf("bubbles should move down one row height, moved %f", dy)
	}

	lt := g.Lattice()
	seen := make(map[core.Cell]bool)
	for _, b := range g.Bubbles() {
		c := g.CellOf(b)
		if b.Pos.Dist(lt.ToPixel(c)) > 1e-6 {
			t.Errorf("bubble %d off lattice after creep: %v vs %v", b.ID, b.Pos, lt.ToPixel(c))
		}
		if seen[c] {
			t.Errorf("two bubbles share cell %v", c)
		}
		seen[c] = true
	}

	// A second creep restores the original parity
	g.CreepDown(rng, &ids)
	if g.Lattice().Phase != 0 || g.Len() != before+15 {
		t.Errorf("second creep: phase %d, %d bubbles", g.Lattice().Phase, g.Len())
	}
}

func TestGridCloneAndHash(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource
	g.GenerateInitialLayout(rand.New(rand.NewSource(1)), &ids, 3)

	c := g.Clone()
	if c.Hash() != g.Hash() {
		t.Error("clone should hash equal")
	}

	c.Remove(c.Bubbles()[0].ID)
	if c.Hash() == g.Hash() {
		t.Error("mutating the clone should change its hash")
	}
	if g.Len() != 23 {
		t.Errorf("original grid should be untouched, got %d bubbles", g.Len())
	}
}
