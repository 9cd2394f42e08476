package bubblepop

import (
	"fmt"

	platformcore "github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop/core"
)

// Autoplayer picks aim angles for headless play. It tries a fan of angles
// and prefers the landing that joins the largest same-color cluster, then
// the highest landing.
type Autoplayer struct {
	MaxAngle float64
	Step     float64
}

// NewAutoplayer returns an autoplayer sweeping +-maxAngle in step degrees.
func NewAutoplayer(maxAngle, step float64) *Autoplayer {
	if step <= 0 {
		step = 5
	}
	return &Autoplayer{MaxAngle: maxAngle, Step: step}
}

// Choose returns the best aim point for the session's current bubble.
// The second result is false if no angle lands anywhere.
func (a *Autoplayer) Choose(s *core.Session) (platformcore.Vec, bool) {
	cur, ok := s.Current()
	if !ok {
		return platformcore.Vec{}, false
	}
	g := s.Grid()
	lt := g.Lattice()

	var best platformcore.Vec
	bestSize, bestY, found := -1, 0.0, false
	probe := cur
	for angle := -a.MaxAngle; angle <= a.MaxAngle; angle += a.Step {
		aim := AimFromAngle(cur.Pos, angle)
		traj, ok := s.Simulate(aim)
		if !ok || !traj.Landed {
			continue
		}
		probe.Pos = lt.ToPixel(traj.Landing)
		size := g.FindCluster(cur.Color, probe).Len()
		if !found || size > bestSize || (size == bestSize && probe.Pos.Y < bestY) {
			best, bestSize, bestY, found = aim, size, probe.Pos.Y, true
		}
	}
	return best, found
}

// StopReason tells why Play returned.
type StopReason int

const (
	StopGameOver StopReason = iota
	StopShotLimit
	StopNoLanding
)

func (r StopReason) String() string {
	switch r {
	case StopGameOver:
		return "game over"
	case StopShotLimit:
		return "shot limit"
	case StopNoLanding:
		return "no landing"
	default:
		return "unknown"
	}
}

// Play drives s until game over, maxShots shots (0 for no limit) or a turn
// with nowhere to land. Difficulty scaling is applied after each shot, as in
// interactive play; dm may be nil.
func (a *Autoplayer) Play(s *core.Session, dm *config.DifficultyManager, baseShots, maxShots int) (core.Stats, StopReason, error) {
	for {
		if s.IsGameOver() {
			return s.Stats(), StopGameOver, nil
		}
		if maxShots > 0 && s.Stats().ShotsFired >= maxShots {
			return s.Stats(), StopShotLimit, nil
		}
		aim, ok := a.Choose(s)
		if !ok {
			return s.Stats(), StopNoLanding, nil
		}
		res, err := s.Shoot(aim)
		if err != nil {
			return s.Stats(), StopNoLanding, fmt.Errorf("shot %d: %w", s.Stats().ShotsFired+1, err)
		}
		if !res.Fired {
			return s.Stats(), StopNoLanding, nil
		}
		applyDifficulty(s, dm, baseShots)
	}
}
