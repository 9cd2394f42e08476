package core_test

import (
	"math/rand"
	"testing"

	platformcore "github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop/core"
)

// emptySession returns a session with no initial rows.
func emptySession(t *testing.T, rng core.Source) *core.Session {
	t.Helper()
	rules := core.DefaultRules()
	rules.InitialRows = 0
	s, err := core.NewSession(core.DefaultLayout(), rules, rng)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	return s
}

func mustPlace(t *testing.T, s *core.Session, c core.Color, row, col int) core.Bubble {
	t.Helper()
	b, err := s.Place(c, core.Cell{Row: row, Col: col})
	if err != nil {
		t.Fatalf("Place(%v, %d, %d) failed: %v", c, row, col, err)
	}
	return b
}

func mustShoot(t *testing.T, s *core.Session, aim platformcore.Vec) core.TurnResult {
	t.Helper()
	res, err := s.Shoot(aim)
	if err != nil {
		t.Fatalf("Shoot(%v) failed: %v", aim, err)
	}
	return res
}

func up(s *core.Session) platformcore.Vec {
	return aimAt(s.Launch(), 0)
}

func TestNewSession(t *testing.T) {
	s, err := core.NewSession(core.DefaultLayout(), core.DefaultRules(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}

	if s.Score() != 0 || s.ShotsRemaining() != 10 || s.IsGameOver() {
		t.Errorf("fresh session: score %d, shots %d, game over %v", s.Score(), s.ShotsRemaining(), s.IsGameOver())
	}
	if s.Grid().Len() != 45 {
		t.Errorf("expected 45 initial bubbles, got %d", s.Grid().Len())
	}
	cur, ok := s.Current()
	if !ok || cur.Pos != platformcore.V(200, 500) {
		t.Errorf("current bubble should wait at (200, 500), got %v", cur.Pos)
	}
	next, ok := s.Next()
	if !ok || next.Pos != platformcore.V(200, 550) {
		t.Errorf("next bubble should wait at (200, 550), got %v", next.Pos)
	}
	if cur.ID == next.ID {
		t.Error("current and next should have distinct ids")
	}
}

func TestNewSessionRejectsBadInput(t *testing.T) {
	rules := core.DefaultRules()
	rules.ShotsPerCycle = 0
	if _, err := core.NewSession(core.DefaultLayout(), rules, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for zero shots per cycle")
	}
	if _, err := core.NewSession(core.DefaultLayout(), core.DefaultRules(), nil); err == nil {
		t.Error("expected error for nil random source")
	}
}

func TestShootClusterOfFour(t *testing.T) {
	s := emptySession(t, constSource(core.ColorRed))
	mustPlace(t, s, core.ColorRed, 3, 2)
	mustPlace(t, s, core.ColorRed, 3, 3)
	mustPlace(t, s, core.ColorRed, 4, 2)

	res := mustShoot(t, s, up(s))

	if !res.Fired {
		t.Fatalf("shot did not fire: %v", res.Skip)
	}
	if res.Landing != (core.Cell{Row: 4, Col: 4}) {
		t.Errorf("Landing = %v, expected (4,4)", res.Landing)
	}
	if res.Matched != 4 {
		t.Errorf("Matched = %d, expected 4", res.Matched)
	}
	if s.Score() != 40 || res.Points != 40 {
		t.Errorf("score %d / points %d, expected 40", s.Score(), res.Points)
	}
	if s.Grid().Len() != 0 {
		t.Errorf("all four bubbles should be removed, %d left", s.Grid().Len())
	}
}

func TestShootDropsFloating(t *testing.T) {
	s := emptySession(t, constSource(core.ColorRed))
	mustPlace(t, s, core.ColorBlue, 0, 0)
	mustPlace(t, s, core.ColorRed, 0, 3)
	mustPlace(t, s, core.ColorRed, 0, 4)
	mustPlace(t, s, core.ColorGreen, 1, 2)
	mustPlace(t, s, core.ColorGreen, 1, 4)
	mustPlace(t, s, core.ColorGreen, 2, 2)

	res := mustShoot(t, s, up(s))

	if res.Landing != (core.Cell{Row: 1, Col: 3}) {
		t.Fatalf("Landing = %v, expected (1,3)", res.Landing)
	}
	if res.Matched != 3 || res.Dropped != 3 {
		t.Errorf("matched %d dropped %d, expected 3 and 3", res.Matched, res.Dropped)
	}
	// 10k + 20f
	if want := 10*3 + 20*3; s.Score() != want {
		t.Errorf("Score() = %d, expected %d", s.Score(), want)
	}
	if s.Grid().Len() != 1 {
		t.Errorf("only the anchored blue bubble should remain, got %d", s.Grid().Len())
	}

	kinds := make([]core.EventKind, 0, len(res.Events))
	for _, e := range res.Events {
		kinds = append(kinds, e.Kind)
	}
	want := []core.EventKind{core.EventShotFired, core.EventClusterMatched, core.EventBubblesDropped}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, expected %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, expected %v", i, kinds[i], want[i])
		}
	}
}

func TestShootBelowMinMatch(t *testing.T) {
	s := emptySession(t, constSource(core.ColorRed))
	mustPlace(t, s, core.ColorBlue, 0, 3)
	mustPlace(t, s, core.ColorBlue, 0, 4)

	res := mustShoot(t, s, up(s))

	if !res.Fired || res.Matched != 0 || s.Score() != 0 {
		t.Errorf("small cluster should not score: fired %v matched %d score %d", res.Fired, res.Matched, s.Score())
	}
	if s.Grid().Len() != 3 {
		t.Errorf("fired bubble should stay on the board, got %d bubbles", s.Grid().Len())
	}
	if _, ok := s.Grid().Get(res.Placed.ID); !ok {
		t.Error("placed bubble should keep the id it was fired with")
	}
}

func TestShootDegenerateAim(t *testing.T) {
	s, err := core.NewSession(core.DefaultLayout(), core.DefaultRules(), rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	before := s.Hash()
	cur, _ := s.Current()

	res := mustShoot(t, s, cur.Pos)

	if res.Fired || res.Skip != core.SkipDegenerateAim {
		t.Errorf("expected degenerate aim skip, got fired=%v skip=%v", res.Fired, res.Skip)
	}
	if s.Hash() != before || s.ShotsRemaining() != 10 || s.Score() != 0 {
		t.Error("degenerate shot should leave the state unchanged")
	}
}

func TestShootEscapingIsDiscarded(t *testing.T) {
	s := emptySession(t, constSource(core.ColorRed))
	before := s.Hash()

	res := mustShoot(t, s, platformcore.V(200, 600))

	if res.Fired || res.Skip != core.SkipNoLanding {
		t.Errorf("expected no landing skip, got fired=%v skip=%v", res.Fired, res.Skip)
	}
	if s.Hash() != before {
		t.Error("discarded shot should leave the state unchanged")
	}
}

func TestShotBudgetCycling(t *testing.T) {
	s := emptySession(t, constSource(core.ColorRed))

	for i := 1; i <= 9; i++ {
		res := mustShoot(t, s, up(s))
		if res.Crept {
			t.Fatalf("shot %d: crept early", i)
		}
		if s.ShotsRemaining() != 10-i {
			t.Fatalf("shot %d: ShotsRemaining() = %d, expected %d", i, s.ShotsRemaining(), 10-i)
		}
	}

	res := mustShoot(t, s, up(s))
	if !res.Crept {
		t.Error("tenth shot should creep the board down")
	}
	if s.ShotsRemaining() != 10 {
		t.Errorf("ShotsRemaining() = %d after creep, expected 10", s.ShotsRemaining())
	}
	if st := s.Stats(); st.Creeps != 1 || st.ShotsFired != 10 {
		t.Errorf("Stats() = %+v, expected 1 creep and 10 shots", st)
	}

	crept := 0
	for _, e := range res.Events {
		if e.Kind == core.EventGridCrept {
			crept++
		}
	}
	if crept != 1 {
		t.Errorf("expected exactly one creep event, got %d", crept)
	}
}

func TestGameOverIsSticky(t *testing.T) {
	rules := core.DefaultRules()
	rules.InitialRows = 0
	rules.GameOverMargin = 600
	s, err := core.NewSession(core.DefaultLayout(), rules, constSource(core.ColorBlue))
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}

	res := mustShoot(t, s, up(s))
	if !res.GameOver || !s.IsGameOver() {
		t.Fatal("any bubble past the threshold should end the game")
	}

	before := s.Hash()
	res = mustShoot(t, s, up(s))
	if res.Fired || res.Skip != core.SkipGameOver {
		t.Errorf("shooting after game over should be skipped, got %v", res.Skip)
	}
	if !s.IsGameOver() || s.Hash() != before {
		t.Error("game over state should not change")
	}

	s.Reset()
	if s.IsGameOver() || s.Score() != 0 || s.ShotsRemaining() != 10 {
		t.Error("Reset() should start a fresh game")
	}
}

func TestScoreInvariantsOverLongGame(t *testing.T) {
	s, err := core.NewSession(core.DefaultLayout(), core.DefaultRules(), rand.New(rand.NewSource(2024)))
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	offsets := []float64{-120, -60, -20, 0, 25, 70, 130}

	prevScore := 0
	wasOver := false
	for i := range 400 {
		res := mustShoot(t, s, aimAt(s.Launch(), offsets[i%len(offsets)]))

		if res.Fired && res.Points != 10*res.Matched+20*res.Dropped {
			t.Fatalf("shot %d: points %d for %d matched and %d dropped", i, res.Points, res.Matched, res.Dropped)
		}
		if s.Score() < prevScore {
			t.Fatalf("shot %d: score decreased from %d to %d", i, prevScore, s.Score())
		}
		if wasOver && !s.IsGameOver() {
			t.Fatalf("shot %d: game over reverted", i)
		}
		prevScore = s.Score()
		wasOver = s.IsGameOver()
	}
	if !s.IsGameOver() {
		t.Error("a long game with creeping rows should end")
	}
}

func TestSessionDeterminism(t *testing.T) {
	aims := []float64{-90, 40, 0, -10, 150, -150, 5}

	run := func() []uint64 {
		s, err := core.NewSession(core.DefaultLayout(), core.DefaultRules(), rand.New(rand.NewSource(77)))
		if err != nil {
			t.Fatalf("NewSession() failed: %v", err)
		}
		var hashes []uint64
		for i := range 60 {
			mustShoot(t, s, aimAt(s.Launch(), aims[i%len(aims)]))
			hashes = append(hashes, s.Hash())
		}
		return hashes
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs diverged at shot %d", i)
		}
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	s := emptySession(t, constSource(core.ColorRed))
	mustPlace(t, s, core.ColorRed, 0, 3)
	mustPlace(t, s, core.ColorRed, 0, 4)

	var got []core.Event
	s.Subscribe(core.ObserverFunc(func(e core.Event) {
		got = append(got, e)
	}))

	res := mustShoot(t, s, up(s))

	if len(got) != len(res.Events) {
		t.Fatalf("observer saw %d events, result has %d", len(got), len(res.Events))
	}
	for i := range got {
		if got[i] != res.Events[i] {
			t.Errorf("event %d: observer %v, result %v", i, got[i], res.Events[i])
		}
	}
	if got[1].Kind != core.EventClusterMatched || got[1].Count != 3 {
		t.Errorf("expected a match of 3, got %v", got[1])
	}
}

func TestUpdateTrajectoryPreview(t *testing.T) {
	s := emptySession(t, constSource(core.ColorRed))
	before := s.Hash()

	p := s.UpdateTrajectoryPreview(up(s))
	if len(p.Points) == 0 || !p.Landed {
		t.Fatalf("preview toward the ceiling should land, got %d points", len(p.Points))
	}
	if len(s.Preview().Points) != len(p.Points) {
		t.Error("Preview() should return the stored preview")
	}
	if s.Hash() != before {
		t.Error("preview must not change game state")
	}

	mustShoot(t, s, up(s))
	if len(s.Preview().Points) != 0 {
		t.Error("preview should be cleared after a shot")
	}
}

func TestResetKeepsIDsUnique(t *testing.T) {
	s, err := core.NewSession(core.DefaultLayout(), core.DefaultRules(), rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	seen := make(map[core.BubbleID]bool)
	for _, b := range s.Grid().Bubbles() {
		seen[b.ID] = true
	}

	s.Reset()
	for _, b := range s.Grid().Bubbles() {
		if seen[b.ID] {
			t.Fatalf("id %d reused after Reset()", b.ID)
		}
	}
}
