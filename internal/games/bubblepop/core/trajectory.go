package core

import (
	platformcore "github.com/vovakirdan/bubblepop/internal/core"
)

// StepOutcome describes what happened to a projectile during one step.
type StepOutcome int

const (
	StepMoving  StepOutcome = iota // Still in flight
	StepHit                        // Touched a placed bubble
	StepCeiling                    // Reached the ceiling
	StepEscaped                    // Left the play area through the bottom
)

// String returns the string representation of a step outcome.
func (o StepOutcome) String() string {
	switch o {
	case StepMoving:
		return "moving"
	case StepHit:
		return "hit"
	case StepCeiling:
		return "ceiling"
	case StepEscaped:
		return "escaped"
	default:
		return "unknown"
	}
}

// Projectile is a bubble in flight.
type Projectile struct {
	Pos     platformcore.Vec
	Dir     platformcore.Vec // Unit vector
	Bounces int
	// Stop is the point a terminated projectile snaps from: the last
	// collision-free position for a hit, the current one for the ceiling.
	Stop platformcore.Vec
}

// NewProjectile aims a projectile from launch toward aim.
// Returns false when the two points coincide and there is no direction.
func NewProjectile(launch, aim platformcore.Vec) (Projectile, bool) {
	dir, ok := aim.Sub(launch).Normalize()
	if !ok {
		return Projectile{}, false
	}
	return Projectile{Pos: launch, Dir: dir}, true
}

// Trajectory is the result of a simulated flight.
type Trajectory struct {
	Points    []platformcore.Vec // Sampled path, launch point first
	Outcome   StepOutcome        // How the flight ended; StepMoving if truncated
	Landing   Cell               // Valid only if Landed
	Landed    bool
	Bounces   int
	Truncated bool // Preview stopped by a bounce or point cap
}

// LandingPos returns the center of the landing cell.
func (t Trajectory) LandingPos(lt Lattice) (platformcore.Vec, bool) {
	if !t.Landed {
		return platformcore.Vec{}, false
	}
	return lt.ToPixel(t.Landing), true
}

// SimParams tunes the simulator.
type SimParams struct {
	StepLen           float64 // Distance advanced per step
	PreviewSpacing    float64 // Distance between recorded preview points
	PreviewMaxBounces int
	PreviewMaxPoints  int
	MaxSteps          int // Hard cap for a committed shot
}

// Simulator traces projectiles through a grid.
type Simulator struct {
	grid   *Grid
	params SimParams
}

// NewSimulator creates a simulator over the grid.
func NewSimulator(g *Grid, p SimParams) *Simulator {
	if p.StepLen <= 0 {
		p.StepLen = 10
	}
	if p.PreviewSpacing < p.StepLen {
		p.PreviewSpacing = p.StepLen
	}
	if p.MaxSteps <= 0 {
		p.MaxSteps = 5000
	}
	return &Simulator{grid: g, params: p}
}

// Step advances the projectile once. Termination is checked in priority
// order: bubble collision, ceiling, then the walls reflect the direction.
func (s *Simulator) Step(p Projectile) (Projectile, StepOutcome) {
	l := s.grid.Layout()
	prev := p.Pos
	p.Pos = p.Pos.Add(p.Dir.Scale(s.params.StepLen))

	if len(s.grid.Query(p.Pos, l.Diameter)) > 0 {
		p.Stop = prev
		return p, StepHit
	}
	if p.Pos.Y <= l.Top+l.Radius() {
		p.Stop = p.Pos
		return p, StepCeiling
	}

	minX, maxX := l.Radius(), l.Width-l.Radius()
	switch {
	case p.Pos.X <= minX && p.Dir.X < 0:
		p.Pos.X = 2*minX - p.Pos.X
		p.Dir.X = -p.Dir.X
		p.Bounces++
	case p.Pos.X >= maxX && p.Dir.X > 0:
		p.Pos.X = 2*maxX - p.Pos.X
		p.Dir.X = -p.Dir.X
		p.Bounces++
	}

	if p.Pos.Y > l.Height+l.Diameter {
		return p, StepEscaped
	}
	return p, StepMoving
}

// Shot simulates a committed shot until it lands or leaves the play area.
// Returns false when the aim is degenerate.
func (s *Simulator) Shot(launch, aim platformcore.Vec) (Trajectory, bool) {
	p, ok := NewProjectile(launch, aim)
	if !ok {
		return Trajectory{}, false
	}
	t := Trajectory{Points: []platformcore.Vec{launch}, Outcome: StepMoving}

	for range s.params.MaxSteps {
		var outcome StepOutcome
		p, outcome = s.Step(p)
		t.Bounces = p.Bounces
		if outcome != StepMoving {
			t.Points = append(t.Points, p.Pos)
			s.finish(&t, p, outcome)
			return t, true
		}
	}
	t.Points = append(t.Points, p.Pos)
	return t, true
}

// Preview simulates the same flight as Shot but records a point every
// PreviewSpacing units and gives up after too many bounces or points.
func (s *Simulator) Preview(launch, aim platformcore.Vec) Trajectory {
	p, ok := NewProjectile(launch, aim)
	if !ok {
		return Trajectory{}
	}
	t := Trajectory{Points: []platformcore.Vec{launch}, Outcome: StepMoving}
	every := max(1, int(s.params.PreviewSpacing/s.params.StepLen))

	for i := 1; i <= s.params.MaxSteps; i++ {
		var outcome StepOutcome
		p, outcome = s.Step(p)
		t.Bounces = p.Bounces
		if outcome != StepMoving {
			if len(t.Points) >= s.params.PreviewMaxPoints {
				t.Points = t.Points[:len(t.Points)-1]
			}
			t.Points = append(t.Points, p.Pos)
			s.finish(&t, p, outcome)
			return t
		}
		if p.Bounces > s.params.PreviewMaxBounces {
			t.Truncated = true
			return t
		}
		if i%every == 0 {
			if len(t.Points) >= s.params.PreviewMaxPoints {
				t.Truncated = true
				return t
			}
			t.Points = append(t.Points, p.Pos)
		}
	}
	t.Truncated = true
	return t
}

func (s *Simulator) finish(t *Trajectory, p Projectile, outcome StepOutcome) {
	t.Outcome = outcome
	if outcome == StepHit || outcome == StepCeiling {
		t.Landing, t.Landed = s.landingCell(p.Stop)
	}
}

// landingCell snaps a stop point to the lattice. When the nearest cell is
// taken, the closest free neighbor is used instead.
func (s *Simulator) landingCell(stop platformcore.Vec) (Cell, bool) {
	lt := s.grid.Lattice()
	c := lt.NearestCell(stop)
	if !s.grid.Occupied(c) {
		return c, true
	}

	best, found := Cell{}, false
	bestDist := 0.0
	for _, n := range lt.Neighbors(c) {
		if s.grid.Occupied(n) {
			continue
		}
		d := lt.ToPixel(n).Dist(stop)
		if !found || d < bestDist {
			best, bestDist, found = n, d, true
		}
	}
	return best, found
}
