package core

import (
	"fmt"
	"math"

	platformcore "github.com/vovakirdan/bubblepop/internal/core"
)

// Hex row-height ratio (sqrt(3)/2, truncated).
const rowHeightRatio = 0.866

// Adjacency tolerance over one diameter; absorbs lattice rounding.
const adjacencyTolerance = 1.1

// Layout holds the fixed dimensions of the board and play area.
type Layout struct {
	Rows     int     // Nominal number of rows on the board
	Columns  int     // Cells in a wide row; narrow rows have Columns-1
	Diameter float64 // Bubble diameter
	Spacing  float64 // Gap between neighboring bubbles
	Width    float64 // Play area width
	Height   float64 // Play area height
	Top      float64 // Y coordinate of the ceiling
}

// DefaultLayout returns the standard 12x8 board in a 400x600 play area.
func DefaultLayout() Layout {
	return Layout{
		Rows:     12,
		Columns:  8,
		Diameter: 40,
		Spacing:  2,
		Width:    400,
		Height:   600,
		Top:      0,
	}
}

// Validate checks that the layout can host a lattice.
func (l Layout) Validate() error {
	switch {
	case l.Columns < 2:
		return fmt.Errorf("layout: need at least 2 columns, got %d", l.Columns)
	case l.Rows < 1:
		return fmt.Errorf("layout: need at least 1 row, got %d", l.Rows)
	case l.Diameter <= 0 || l.Spacing < 0:
		return fmt.Errorf("layout: invalid bubble size %.1f/%.1f", l.Diameter, l.Spacing)
	case l.GridWidth() > l.Width:
		return fmt.Errorf("layout: grid width %.1f exceeds play area %.1f", l.GridWidth(), l.Width)
	case l.Height <= l.Top+l.Diameter:
		return fmt.Errorf("layout: play area height %.1f too small", l.Height)
	}
	return nil
}

// Pitch is the center-to-center distance of neighbors in one row.
func (l Layout) Pitch() float64 {
	return l.Diameter + l.Spacing
}

// RowHeight is the vertical distance between consecutive rows.
func (l Layout) RowHeight() float64 {
	return l.Diameter*rowHeightRatio + l.Spacing
}

// Radius is half the bubble diameter.
func (l Layout) Radius() float64 {
	return l.Diameter / 2
}

// GridWidth is the horizontal extent of a wide row.
func (l Layout) GridWidth() float64 {
	return float64(l.Columns)*l.Pitch() - l.Spacing
}

// OriginX is the left edge of the centered grid.
func (l Layout) OriginX() float64 {
	return (l.Width - l.GridWidth()) / 2
}

// Bounds returns the play area rectangle.
func (l Layout) Bounds() platformcore.Rect {
	return platformcore.NewRect(0, 0, int(l.Width), int(l.Height))
}

// Cell is a hex-offset grid coordinate.
type Cell struct {
	Row int
	Col int
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Lattice maps between cells and play-area positions.
// Phase selects which row parity is wide; it flips each time the
// board creeps down so bubbles already placed stay aligned.
type Lattice struct {
	Layout
	Phase int
}

// NewLattice creates a lattice whose row 0 is wide.
func NewLattice(l Layout) Lattice {
	return Lattice{Layout: l}
}

// Wide reports whether the row holds Columns cells with no offset.
func (lt Lattice) Wide(row int) bool {
	return (row+lt.Phase)%2 == 0
}

// RowLen returns the number of cells in a row.
func (lt Lattice) RowLen(row int) int {
	if lt.Wide(row) {
		return lt.Columns
	}
	return lt.Columns - 1
}

func (lt Lattice) rowOffset(row int) float64 {
	if lt.Wide(row) {
		return 0
	}
	return lt.Pitch() / 2
}

// InRange reports whether the cell exists on the lattice. Rows below the
// nominal row count are allowed: the board may creep past them.
func (lt Lattice) InRange(c Cell) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Col < lt.RowLen(c.Row)
}

// ToPixel returns the center of a cell.
func (lt Lattice) ToPixel(c Cell) platformcore.Vec {
	x := lt.OriginX() + lt.rowOffset(c.Row) + float64(c.Col)*lt.Pitch() + lt.Radius()
	y := lt.Top + float64(c.Row)*lt.RowHeight() + lt.Radius()
	return platformcore.V(x, y)
}

// NearestCell snaps an arbitrary point to a cell. The row comes from y
// (never above the ceiling row), then the column from x, clamped to the
// row's valid range.
func (lt Lattice) NearestCell(p platformcore.Vec) Cell {
	row := int(math.Round((p.Y - lt.Top - lt.Radius()) / lt.RowHeight()))
	if row < 0 {
		row = 0
	}
	col := int(math.Round((p.X - lt.OriginX() - lt.rowOffset(row) - lt.Radius()) / lt.Pitch()))
	col = platformcore.Clamp(col, 0, lt.RowLen(row)-1)
	return Cell{Row: row, Col: col}
}

// Snap returns the center of the cell nearest to p.
func (lt Lattice) Snap(p platformcore.Vec) platformcore.Vec {
	return lt.ToPixel(lt.NearestCell(p))
}

// Neighbors returns the in-range cells sharing an edge with c.
func (lt Lattice) Neighbors(c Cell) []Cell {
	// Cells in the rows above and below start half a pitch to the right of
	// a wide row and half a pitch to the left of a narrow one.
	lo, hi := c.Col, c.Col+1
	if lt.Wide(c.Row) {
		lo, hi = c.Col-1, c.Col
	}
	candidates := []Cell{
		{c.Row, c.Col - 1},
		{c.Row, c.Col + 1},
		{c.Row - 1, lo},
		{c.Row - 1, hi},
		{c.Row + 1, lo},
		{c.Row + 1, hi},
	}
	out := candidates[:0]
	for _, n := range candidates {
		if lt.InRange(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsAdjacent reports whether two bubble centers touch: their distance is
// at most 1.1 diameters.
func IsAdjacent(a, b platformcore.Vec, diameter float64) bool {
	return a.Dist(b) <= diameter*adjacencyTolerance
}
