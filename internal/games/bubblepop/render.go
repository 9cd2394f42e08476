package bubblepop

import (
	"fmt"
	"math"

	platformcore "github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop/core"
)

// Terminal columns per lattice pitch; lattice rows map to one line each.
const colsPerPitch = 4

const hudHeight = 2

// view maps play-area pixels to terminal cells.
type view struct {
	originX, originY int // Top-left inner cell of the board box
	pxPerCol         float64
	pxPerRow         float64
	cols, rows       int // Inner board size in cells
}

func newView(l core.Layout, screenW int) view {
	v := view{
		pxPerCol: l.Pitch() / colsPerPitch,
		pxPerRow: l.RowHeight(),
	}
	v.cols = int(math.Ceil(l.Width / v.pxPerCol))
	v.rows = int(math.Ceil(l.Height / v.pxPerRow))
	v.originX = (screenW-v.cols-2)/2 + 1
	v.originY = hudHeight + 1
	return v
}

// toScreen converts a play-area point to a terminal cell.
func (v view) toScreen(p platformcore.Vec) (int, int) {
	return v.originX + int(math.Floor(p.X/v.pxPerCol)), v.originY + int(math.Floor(p.Y/v.pxPerRow))
}

// inside reports whether a terminal cell lies in the board box interior.
func (v view) inside(x, y int) bool {
	return x >= v.originX && x < v.originX+v.cols && y >= v.originY && y < v.originY+v.rows
}

// neededSize returns the minimum screen size for the board, HUD and footer.
func (v view) neededSize() (int, int) {
	return v.cols + 2, hudHeight + v.rows + 2 + 1
}

func (g *Game) checkSize() {
	v := newView(g.session.Layout(), g.screenW)
	w, h := v.neededSize()
	g.tooSmall = g.screenW < w || g.screenH < h
}

// colorFor maps a bubble color to a terminal color.
func colorFor(c core.Color) platformcore.Color {
	switch c {
	case core.ColorRed:
		return platformcore.ColorRed
	case core.ColorBlue:
		return platformcore.ColorBlue
	case core.ColorGreen:
		return platformcore.ColorGreen
	case core.ColorYellow:
		return platformcore.ColorYellow
	case core.ColorPurple:
		return platformcore.ColorMagenta
	case core.ColorOrange:
		return platformcore.ColorOrange
	case core.ColorRainbow:
		return platformcore.ColorCyan
	default:
		return platformcore.ColorBrightWhite
	}
}

// glyphFor returns the rune used for a bubble.
func glyphFor(c core.Color) rune {
	if c.IsNormal() {
		return '●'
	}
	return c.Char()
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	if dst.Width() != g.screenW || dst.Height() != g.screenH {
		g.screenW, g.screenH = dst.Width(), dst.Height()
		g.checkSize()
	}

	g.renderHUD(dst)

	if g.tooSmall {
		w, h := newView(g.session.Layout(), g.screenW).neededSize()
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need at least %dx%d", w, h))
		return
	}

	v := newView(g.session.Layout(), dst.Width())
	g.renderBoard(dst, v)
	g.renderFooter(dst, v)

	switch {
	case g.err != nil:
		g.renderOverlay(dst, v, "Board Error", "Press R to restart")
	case g.session.IsGameOver():
		g.renderOverlay(dst, v, "Game Over", fmt.Sprintf("Score %d - Press R to restart", g.session.Score()))
	case g.paused:
		g.renderOverlay(dst, v, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	s := g.session
	hud := fmt.Sprintf(" Bubble Pop | Score: %d | Shots: %d | Aim: %+.0f° | Next: ",
		s.Score(), s.ShotsRemaining(), g.angle)
	dst.DrawTextColored(0, 0, hud, platformcore.ColorCyan)
	if next, ok := s.Next(); ok {
		x := len([]rune(hud))
		dst.SetColored(x, 0, glyphFor(next.Color), colorFor(next.Color))
	}
	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorGray)
}

// renderBoard draws the box, danger line, preview, bubbles and shooter.
func (g *Game) renderBoard(dst *platformcore.Screen, v view) {
	s := g.session
	l := s.Layout()

	dst.DrawBox(platformcore.NewRect(v.originX-1, v.originY-1, v.cols+2, v.rows+2), platformcore.ColorGray)

	// Danger line
	_, dy := v.toScreen(platformcore.V(0, l.Height-s.Rules().GameOverMargin))
	for x := v.originX; x < v.originX+v.cols; x++ {
		dst.SetColored(x, dy, '╌', platformcore.ColorBrightRed)
	}

	// Aiming guide
	cur, hasCur := s.Current()
	if preview := s.Preview(); hasCur && !s.IsGameOver() {
		for _, p := range preview.Points[min(1, len(preview.Points)):] {
			if x, y := v.toScreen(p); v.inside(x, y) {
				dst.SetColored(x, y, '·', platformcore.ColorGray)
			}
		}
		if pos, ok := preview.LandingPos(s.Grid().Lattice()); ok {
			if x, y := v.toScreen(pos); v.inside(x, y) {
				dst.SetColored(x, y, '◌', colorFor(cur.Color))
			}
		}
	}

	for _, b := range s.Grid().Bubbles() {
		if x, y := v.toScreen(b.Pos); v.inside(x, y) {
			dst.SetColored(x, y, glyphFor(b.Color), colorFor(b.Color))
		}
	}

	if hasCur {
		x, y := v.toScreen(cur.Pos)
		dst.SetColored(x, y, glyphFor(cur.Color), colorFor(cur.Color))
		// Short pointer in the aim direction
		tip := AimFromAngle(cur.Pos, g.angle).Sub(cur.Pos).Scale(0.4).Add(cur.Pos)
		if tx, ty := v.toScreen(tip); v.inside(tx, ty) && (tx != x || ty != y) {
			dst.SetColored(tx, ty, '↑', platformcore.ColorBrightWhite)
		}
	}
	if next, ok := s.Next(); ok {
		x, y := v.toScreen(next.Pos)
		dst.SetColored(x, y, glyphFor(next.Color), colorFor(next.Color))
		dst.DrawTextColored(x+2, y, "next", platformcore.ColorGray)
	}
}

// renderFooter draws the turn message or the control hints.
func (g *Game) renderFooter(dst *platformcore.Screen, v view) {
	y := v.originY + v.rows + 1
	if g.messageLeft > 0 && g.message != "" {
		dst.DrawTextColored(1, y, g.message, g.messageColor)
		return
	}
	dst.DrawTextColored(1, y, "←/→ aim  ↑/↓ fine aim  Space fire  P pause  Q quit", platformcore.ColorGray)
}

// renderOverlay draws a centered two-line box over the board.
func (g *Game) renderOverlay(dst *platformcore.Screen, v view, title, subtitle string) {
	w := max(len([]rune(title)), len([]rune(subtitle))) + 4
	h := 4
	x := v.originX + (v.cols-w)/2
	y := v.originY + (v.rows-h)/2

	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			dst.Set(xx, yy, ' ')
		}
	}
	dst.DrawBox(platformcore.NewRect(x, y, w, h), platformcore.ColorBrightWhite)
	dst.DrawTextColored(x+(w-len([]rune(title)))/2, y+1, title, platformcore.ColorBrightWhite)
	dst.DrawTextColored(x+(w-len([]rune(subtitle)))/2, y+2, subtitle, platformcore.ColorGray)
}
