package core

import (
	"fmt"
	"hash/fnv"

	platformcore "github.com/vovakirdan/bubblepop/internal/core"
)

// SkipReason explains why a shot did not fire.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipGameOver
	SkipNoShots
	SkipNoBubble
	SkipDegenerateAim
	SkipNoLanding
)

// String returns the string representation of a skip reason.
func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipGameOver:
		return "game over"
	case SkipNoShots:
		return "no shots left"
	case SkipNoBubble:
		return "no bubble loaded"
	case SkipDegenerateAim:
		return "aim point on the shooter"
	case SkipNoLanding:
		return "no landing cell"
	default:
		return "unknown"
	}
}

// TurnResult summarizes one call to Shoot.
type TurnResult struct {
	Fired      bool
	Skip       SkipReason
	Landing    Cell
	Placed     Bubble
	Matched    int // Bubbles popped by the cluster, 0 if below MinMatch
	Dropped    int // Floating bubbles removed after the match
	Points     int // Score gained this turn
	Crept      bool
	GameOver   bool
	Trajectory Trajectory
	Events     []Event
}

// Stats are per-run counters.
type Stats struct {
	ShotsFired     int
	BubblesPopped  int
	BubblesDropped int
	Creeps         int
}

// Session is one game of bubble pop: the grid, the shooter and the score.
// It is not safe for concurrent use.
type Session struct {
	layout Layout
	base   Rules
	rules  Rules
	rng    Source
	ids    IDSource

	grid     *Grid
	sim      *Simulator
	score    int
	shots    int
	current  *Bubble
	next     *Bubble
	gameOver bool
	preview  Trajectory
	stats    Stats

	observers []Observer
}

// NewSession creates a session and deals the first board.
func NewSession(l Layout, r Rules, rng Source) (*Session, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("session: nil random source")
	}
	s := &Session{layout: l, base: r, rules: r, rng: rng}
	s.grid = NewGrid(l)
	s.sim = NewSimulator(s.grid, r.simParams())
	s.Reset()
	return s, nil
}

// Reset starts a new game. Bubble ids keep counting up.
func (s *Session) Reset() {
	s.rules = s.base
	s.grid.GenerateInitialLayout(s.rng, &s.ids, s.rules.InitialRows)
	s.score = 0
	s.shots = s.rules.ShotsPerCycle
	s.gameOver = false
	s.preview = Trajectory{}
	s.stats = Stats{}

	cur := s.ids.NewBubble(RandomNormalColor(s.rng), s.Launch())
	next := s.ids.NewBubble(RandomNormalColor(s.rng), s.NextPos())
	s.current, s.next = &cur, &next
}

// Subscribe registers an observer for turn events.
func (s *Session) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// Place puts a new bubble of color c at cell. It is meant for building
// custom boards before play starts.
func (s *Session) Place(c Color, cell Cell) (Bubble, error) {
	lt := s.grid.Lattice()
	if !lt.InRange(cell) {
		return Bubble{}, fmt.Errorf("session: place at %v: %w", cell, ErrOffLattice)
	}
	b := s.ids.NewBubble(c, lt.ToPixel(cell))
	if err := s.grid.Insert(b); err != nil {
		return Bubble{}, fmt.Errorf("session: place: %w", err)
	}
	return b, nil
}

// Launch is the position the current bubble is fired from.
func (s *Session) Launch() platformcore.Vec {
	return platformcore.V(s.layout.Width/2, s.layout.Height-100)
}

// NextPos is where the next bubble waits.
func (s *Session) NextPos() platformcore.Vec {
	return platformcore.V(s.layout.Width/2, s.layout.Height-50)
}

// Shoot fires the current bubble toward aim and resolves the turn.
// Shots that cannot fire leave the state untouched and report why in
// TurnResult.Skip. An error means a lattice invariant was broken.
func (s *Session) Shoot(aim platformcore.Vec) (TurnResult, error) {
	switch {
	case s.gameOver:
		return TurnResult{Skip: SkipGameOver}, nil
	case s.shots <= 0:
		return TurnResult{Skip: SkipNoShots}, nil
	case s.current == nil:
		return TurnResult{Skip: SkipNoBubble}, nil
	}

	traj, ok := s.sim.Shot(s.current.Pos, aim)
	if !ok {
		return TurnResult{Skip: SkipDegenerateAim}, nil
	}
	if !traj.Landed {
		return TurnResult{Skip: SkipNoLanding, Trajectory: traj}, nil
	}

	placed := *s.current
	placed.Pos = s.grid.Lattice().ToPixel(traj.Landing)
	if err := s.grid.Insert(placed); err != nil {
		return TurnResult{}, fmt.Errorf("session: place shot: %w", err)
	}

	res := TurnResult{Fired: true, Landing: traj.Landing, Placed: placed, Trajectory: traj}
	s.stats.ShotsFired++
	s.emit(&res, Event{Kind: EventShotFired, Color: placed.Color, Score: s.score})

	s.resolveMatch(&res, placed)

	s.current, s.next = s.next, nil
	if s.current != nil {
		s.current.Pos = s.Launch()
	}
	next := s.ids.NewBubble(RandomNormalColor(s.rng), s.NextPos())
	s.next = &next

	s.shots--
	if s.shots <= 0 {
		s.grid.CreepDown(s.rng, &s.ids)
		s.shots = s.rules.ShotsPerCycle
		s.stats.Creeps++
		res.Crept = true
		s.emit(&res, Event{Kind: EventGridCrept, Score: s.score})
	}

	if s.grid.Lowest() >= s.layout.Height-s.rules.GameOverMargin {
		s.gameOver = true
		s.emit(&res, Event{Kind: EventGameOver, Score: s.score})
	}
	res.GameOver = s.gameOver
	s.preview = Trajectory{}
	return res, nil
}

// resolveMatch pops the cluster around the placed bubble and drops
// whatever loses its path to the ceiling.
func (s *Session) resolveMatch(res *TurnResult, placed Bubble) {
	cluster := s.grid.FindCluster(placed.Color, placed)
	if cluster.Len() < s.rules.MinMatch {
		return
	}

	res.Matched = s.grid.RemoveSet(cluster)
	gained := res.Matched * s.rules.PointsPerBubble
	s.score += gained
	res.Points += gained
	s.stats.BubblesPopped += res.Matched
	s.emit(res, Event{Kind: EventClusterMatched, Count: res.Matched, Color: placed.Color, Score: s.score})

	floating := s.grid.FindUnsupported()
	if floating.Len() == 0 {
		return
	}
	res.Dropped = s.grid.RemoveSet(floating)
	gained = res.Dropped * s.rules.PointsPerBubble * s.rules.DropMultiplier
	s.score += gained
	res.Points += gained
	s.stats.BubblesDropped += res.Dropped
	s.emit(res, Event{Kind: EventBubblesDropped, Count: res.Dropped, Score: s.score})
}

func (s *Session) emit(res *TurnResult, e Event) {
	res.Events = append(res.Events, e)
	for _, o := range s.observers {
		o.OnEvent(e)
	}
}

// UpdateTrajectoryPreview recomputes the aiming guide from the current bubble.
func (s *Session) UpdateTrajectoryPreview(aim platformcore.Vec) Trajectory {
	if s.current == nil {
		s.preview = Trajectory{}
		return s.preview
	}
	s.preview = s.sim.Preview(s.current.Pos, aim)
	return s.preview
}

// Simulate traces a shot from the current bubble without committing it.
func (s *Session) Simulate(aim platformcore.Vec) (Trajectory, bool) {
	if s.current == nil {
		return Trajectory{}, false
	}
	return s.sim.Shot(s.current.Pos, aim)
}

// SetShotsPerCycle changes the shot budget used from the next refill on.
func (s *Session) SetShotsPerCycle(n int) {
	if n > 0 {
		s.rules.ShotsPerCycle = n
	}
}

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// ShotsRemaining returns the shots left before the next creep down.
func (s *Session) ShotsRemaining() int { return s.shots }

// IsGameOver reports whether the board reached the bottom.
func (s *Session) IsGameOver() bool { return s.gameOver }

// Current returns the loaded bubble, if any.
func (s *Session) Current() (Bubble, bool) {
	if s.current == nil {
		return Bubble{}, false
	}
	return *s.current, true
}

// Next returns the bubble queued after the current one, if any.
func (s *Session) Next() (Bubble, bool) {
	if s.next == nil {
		return Bubble{}, false
	}
	return *s.next, true
}

// Preview returns the last computed aiming guide.
func (s *Session) Preview() Trajectory { return s.preview }

// Grid returns the board. Callers must not mutate it.
func (s *Session) Grid() *Grid { return s.grid }

// Stats returns the counters of the current run.
func (s *Session) Stats() Stats { return s.stats }

// Layout returns the board layout.
func (s *Session) Layout() Layout { return s.layout }

// Rules returns the rule set.
func (s *Session) Rules() Rules { return s.rules }

// Hash returns a hash of the full session state for determinism checks.
func (s *Session) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "G:%d;S:%d;N:%d;O:%t;", s.grid.Hash(), s.score, s.shots, s.gameOver)
	if s.current != nil {
		fmt.Fprintf(h, "C:%d:%d;", s.current.ID, s.current.Color)
	}
	if s.next != nil {
		fmt.Fprintf(h, "X:%d:%d;", s.next.ID, s.next.Color)
	}
	return h.Sum64()
}
