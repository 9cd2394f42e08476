package core

import (
	"fmt"
	"strings"
)

// RenderASCII creates a plain text picture of the session.
// This is used for debugging, the sim command and clipboard export.
//
// Format:
//   - Header with score, shots left and the shooter queue
//   - One line per lattice row; narrow rows are indented one space
//   - Bubbles use their color letter (R/B/G/Y/P/O), empty cells '.'
func RenderASCII(s *Session) string {
	var sb strings.Builder

	cur, next := '-', '-'
	if b, ok := s.Current(); ok {
		cur = b.Color.Char()
	}
	if b, ok := s.Next(); ok {
		next = b.Color.Char()
	}
	sb.WriteString(fmt.Sprintf("Score: %d | Shots: %d | Current: %c | Next: %c\n",
		s.Score(), s.ShotsRemaining(), cur, next))
	sb.WriteString(RenderGridASCII(s.Grid()))
	if s.IsGameOver() {
		sb.WriteString("GAME OVER\n")
	}
	return sb.String()
}

// RenderGridASCII draws just the board, down to the lowest occupied row
// or the nominal row count, whichever is larger.
func RenderGridASCII(g *Grid) string {
	lt := g.Lattice()
	colors := make(map[Cell]Color, g.Len())
	rows := lt.Rows
	for _, b := range g.Bubbles() {
		c := g.CellOf(b)
		colors[c] = b.Color
		rows = max(rows, c.Row+1)
	}

	width := 2*lt.Columns - 1
	var sb strings.Builder
	for row := range rows {
		line := make([]rune, 0, width+1)
		if !lt.Wide(row) {
			line = append(line, ' ')
		}
		for col := range lt.RowLen(row) {
			if col > 0 {
				line = append(line, ' ')
			}
			if c, ok := colors[Cell{Row: row, Col: col}]; ok {
				line = append(line, c.Char())
			} else {
				line = append(line, '.')
			}
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		sb.WriteString("\n")
	}
	return sb.String()
}
