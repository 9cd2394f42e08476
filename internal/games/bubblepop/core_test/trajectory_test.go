package core_test

import (
	"math/rand"
	"testing"

	platformcore "github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop/core"
)

var testParams = core.SimParams{
	StepLen:           10,
	PreviewSpacing:    20,
	PreviewMaxBounces: 3,
	PreviewMaxPoints:  50,
	MaxSteps:          5000,
}

var launch = platformcore.V(200, 500)

func TestNewProjectileDegenerate(t *testing.T) {
	if _, ok := core.NewProjectile(launch, launch); ok {
		t.Error("aiming at the launch point should be rejected")
	}
	p, ok := core.NewProjectile(launch, platformcore.V(200, 0))
	if !ok {
		t.Fatal("vertical aim should be accepted")
	}
	if p.Dir != platformcore.V(0, -1) {
		t.Errorf("Dir = %v, expected (0, -1)", p.Dir)
	}
}

func TestStepWallBounce(t *testing.T) {
	sim := core.NewSimulator(core.NewGrid(core.DefaultLayout()), testParams)

	tests := []struct {
		name    string
		p       core.Projectile
		wantX   float64
		wantDir float64
		bounces int
	}{
		{"left wall", core.Projectile{Pos: platformcore.V(25, 300), Dir: platformcore.V(-1, 0)}, 25, 1, 1},
		{"right wall", core.Projectile{Pos: platformcore.V(375, 300), Dir: platformcore.V(1, 0)}, 375, -1, 1},
		{"leaving the wall", core.Projectile{Pos: platformcore.V(15, 300), Dir: platformcore.V(1, 0)}, 25, 1, 0},
		{"free flight", core.Projectile{Pos: platformcore.V(200, 300), Dir: platformcore.V(-1, 0)}, 190, -1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, outcome := sim.Step(tc.p)
			if outcome != core.StepMoving {
				t.Fatalf("outcome = %v, expected moving", outcome)
			}
			if got.Pos.X != tc.wantX || got.Dir.X != tc.wantDir || got.Bounces != tc.bounces {
				t.Errorf("Step() = pos %v dir %v bounces %d", got.Pos, got.Dir, got.Bounces)
			}
		})
	}
}

func TestShotStraightUpEmptyGrid(t *testing.T) {
	sim := core.NewSimulator(core.NewGrid(core.DefaultLayout()), testParams)

	traj, ok := sim.Shot(launch, platformcore.V(200, 0))
	if !ok {
		t.Fatal("Shot() rejected a valid aim")
	}
	if traj.Outcome != core.StepCeiling {
		t.Errorf("Outcome = %v, expected ceiling", traj.Outcome)
	}
	if !traj.Landed || traj.Landing.Row != 0 {
		t.Errorf("expected landing in row 0, got %v (landed %v)", traj.Landing, traj.Landed)
	}
	if traj.Bounces != 0 {
		t.Errorf("straight shot should not bounce, got %d", traj.Bounces)
	}
}

func TestShotHitsBubble(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource
	place(t, g, &ids, core.ColorRed, core.Cell{Row: 0, Col: 4})
	sim := core.NewSimulator(g, testParams)

	traj, ok := sim.Shot(launch, platformcore.V(200, 0))
	if !ok {
		t.Fatal("Shot() rejected a valid aim")
	}
	if traj.Outcome != core.StepHit {
		t.Fatalf("Outcome = %v, expected hit", traj.Outcome)
	}
	want := core.Cell{Row: 1, Col: 3}
	if traj.Landing != want {
		t.Errorf("Landing = %v, expected %v", traj.Landing, want)
	}
	if g.Occupied(traj.Landing) {
		t.Error("landing cell must be free")
	}
}

func TestShotBouncesOffWall(t *testing.T) {
	l := core.DefaultLayout()
	sim := core.NewSimulator(core.NewGrid(l), testParams)

	traj, ok := sim.Shot(launch, platformcore.V(0, 300))
	if !ok {
		t.Fatal("Shot() rejected a valid aim")
	}
	if traj.Bounces < 1 {
		t.Errorf("expected at least one bounce, got %d", traj.Bounces)
	}
	if !traj.Landed {
		t.Error("shot into an empty board should land on the ceiling")
	}
	for _, p := range traj.Points {
		if p.X < l.Radius() || p.X > l.Width-l.Radius() {
			t.Errorf("point %v left the play area", p)
		}
	}
}

func TestShotEscapesDownward(t *testing.T) {
	sim := core.NewSimulator(core.NewGrid(core.DefaultLayout()), testParams)

	traj, ok := sim.Shot(launch, platformcore.V(200, 600))
	if !ok {
		t.Fatal("Shot() rejected a valid aim")
	}
	if traj.Outcome != core.StepEscaped || traj.Landed {
		t.Errorf("downward shot should escape without landing, got %v landed=%v", traj.Outcome, traj.Landed)
	}
}

func TestPreviewMatchesShot(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource
	g.GenerateInitialLayout(rand.New(rand.NewSource(3)), &ids, 6)
	sim := core.NewSimulator(g, testParams)

	for dx := -300.0; dx <= 300; dx += 15 {
		aim := aimAt(launch, dx)
		preview := sim.Preview(launch, aim)
		shot, ok := sim.Shot(launch, aim)
		if !ok {
			t.Fatalf("dx=%.0f: Shot() rejected a valid aim", dx)
		}
		if preview.Truncated {
			continue
		}
		if preview.Landed != shot.Landed || preview.Landing != shot.Landing {
			t.Errorf("dx=%.0f: preview landing %v/%v, shot landing %v/%v",
				dx, preview.Landing, preview.Landed, shot.Landing, shot.Landed)
		}
		if preview.Points[0] != launch {
			t.Errorf("dx=%.0f: preview should start at the launch point", dx)
		}
	}
}

func TestPreviewCaps(t *testing.T) {
	sim := core.NewSimulator(core.NewGrid(core.DefaultLayout()), testParams)

	// Nearly horizontal: keeps bouncing long before reaching the ceiling
	preview := sim.Preview(launch, platformcore.V(0, 499))
	if !preview.Truncated {
		t.Error("shallow preview should be truncated")
	}
	if preview.Landed {
		t.Error("truncated preview should have no landing")
	}
	if len(preview.Points) > testParams.PreviewMaxPoints {
		t.Errorf("preview has %d points, cap is %d", len(preview.Points), testParams.PreviewMaxPoints)
	}
	if preview.Bounces > testParams.PreviewMaxBounces+1 {
		t.Errorf("preview bounced %d times", preview.Bounces)
	}

	if got := sim.Preview(launch, launch); len(got.Points) != 0 {
		t.Errorf("degenerate preview should be empty, got %d points", len(got.Points))
	}
}

func TestPreviewSpacing(t *testing.T) {
	sim := core.NewSimulator(core.NewGrid(core.DefaultLayout()), testParams)

	preview := sim.Preview(launch, platformcore.V(200, 0))
	if preview.Truncated || !preview.Landed {
		t.Fatalf("straight preview should land, truncated=%v", preview.Truncated)
	}
	for i := 1; i < len(preview.Points)-1; i++ {
		d := preview.Points[i].Dist(preview.Points[i-1])
		if d < 19.99 || d > 20.01 {
			t.Errorf("points %d and %d are %f apart, expected 20", i-1, i, d)
		}
	}
}

func TestLandingFallsBackToFreeNeighbor(t *testing.T) {
	g := core.NewGrid(core.DefaultLayout())
	var ids core.IDSource
	// Wall column of the narrow row is clamped; fill it so the snap is taken
	place(t, g, &ids, core.ColorRed, core.Cell{Row: 0, Col: 0})
	place(t, g, &ids, core.ColorRed, core.Cell{Row: 1, Col: 0})
	sim := core.NewSimulator(g, testParams)

	// Hug the left wall straight up
	traj, ok := sim.Shot(platformcore.V(20, 500), platformcore.V(20, 0))
	if !ok {
		t.Fatal("Shot() rejected a valid aim")
	}
	if !traj.Landed {
		t.Fatal("expected a landing cell")
	}
	if g.Occupied(traj.Landing) {
		t.Errorf("landing %v is occupied", traj.Landing)
	}
}
