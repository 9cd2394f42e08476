// Package bubblepop provides the Bubble Pop shooter for the terminal platform.
package bubblepop

import (
	"fmt"
	"math"
	"math/rand"

	platformcore "github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop/core"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

// GameID is the registry identifier of Bubble Pop.
const GameID = "bubblepop"

// Aim distance from the launch point; only the direction matters.
const aimReach = 100.0

// Ticks a turn message stays on screen (about 2 seconds at 60 FPS).
const messageTicks = 120

// Package-level configuration, set by the CLI before the game is created.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. An empty or unknown
// preset keeps the configured rules.
func SetDifficultyPreset(preset string) {
	difficultyPreset = ""
	if p, ok := config.ParsePreset(preset); ok {
		difficultyPreset = p
	}
}

// LoadConfig returns the effective configuration: file lookup plus preset.
func LoadConfig() (config.BubblePopConfig, error) {
	return loadConfig(difficultyPreset)
}

func loadConfig(preset config.DifficultyPreset) (config.BubblePopConfig, error) {
	cfg, err := config.LoadBubblePop(configPath)
	if err != nil {
		return config.DefaultBubblePopConfig(), err
	}
	if preset != "" {
		config.ApplyBubblePopPreset(&cfg, preset)
	}
	return cfg, nil
}

// LayoutFromConfig converts board settings to an engine layout.
func LayoutFromConfig(b config.BoardConfig) core.Layout {
	l := core.DefaultLayout()
	l.Rows = b.Rows
	l.Columns = b.Columns
	l.Diameter = b.Diameter
	l.Spacing = b.Spacing
	l.Width = b.Width
	l.Height = b.Height
	return l
}

// RulesFromConfig converts rule settings to engine rules.
func RulesFromConfig(r config.RulesConfig) core.Rules {
	rules := core.DefaultRules()
	rules.ShotsPerCycle = r.ShotsPerCycle
	rules.MinMatch = r.MinMatch
	rules.PointsPerBubble = r.PointsPerBubble
	rules.DropMultiplier = r.DropMultiplier
	rules.GameOverMargin = r.GameOverMargin
	rules.InitialRows = r.InitialRows
	rules.ShotStep = r.ShotStep
	rules.PreviewStep = r.PreviewStep
	rules.PreviewMaxBounces = r.PreviewMaxBounces
	rules.PreviewMaxPoints = r.PreviewMaxPoints
	return rules
}

// NewSessionFromConfig builds an engine session for cfg.
func NewSessionFromConfig(cfg config.BubblePopConfig, rng core.Source) (*core.Session, error) {
	s, err := core.NewSession(LayoutFromConfig(cfg.Board), RulesFromConfig(cfg.Rules), rng)
	if err != nil {
		return nil, fmt.Errorf("bubblepop: %w", err)
	}
	return s, nil
}

// Game implements registry.Game on top of a core.Session.
type Game struct {
	cfg        config.BubblePopConfig
	difficulty *config.DifficultyManager
	rng        *rand.Rand
	session    *core.Session
	preset     config.DifficultyPreset // Per-instance override of difficultyPreset

	// Aim angle in degrees from vertical, negative to the left
	angle float64

	tick     uint64
	paused   bool
	tooSmall bool
	err      error // Lattice invariant violation, ends the run

	message      string
	messageColor platformcore.Color
	messageLeft  int

	screenW int
	screenH int
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

// New creates a new Bubble Pop game. Call Reset before use.
func New() *Game {
	return &Game{}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Bubble Pop"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tick = 0
	g.paused = false
	g.err = nil
	g.angle = 0
	g.message = ""
	g.messageLeft = 0

	preset := difficultyPreset
	if g.preset != "" {
		preset = g.preset
	}
	gameCfg, err := loadConfig(preset)
	if err != nil {
		g.setMessage("config: "+err.Error(), platformcore.ColorBrightRed)
	}
	session, err := NewSessionFromConfig(gameCfg, g.rng)
	if err != nil {
		// Invalid board or rules in the file; play the defaults instead
		g.setMessage(err.Error(), platformcore.ColorBrightRed)
		gameCfg = config.DefaultBubblePopConfig()
		session, _ = NewSessionFromConfig(gameCfg, g.rng)
	}
	g.cfg = gameCfg
	g.difficulty = config.NewDifficultyManager(gameCfg.Difficulty)
	g.session = session
	g.session.Subscribe(core.ObserverFunc(g.onEvent))
	g.checkSize()
	g.refreshPreview()
}

// SetDifficulty selects a preset for this instance only. Takes effect on
// the next Reset.
func (g *Game) SetDifficulty(preset string) {
	g.preset = ""
	if p, ok := config.ParsePreset(preset); ok {
		g.preset = p
	}
}

// Session exposes the engine session.
func (g *Game) Session() *core.Session {
	return g.session
}

// Err returns the invariant violation that ended the run, if any.
func (g *Game) Err() error {
	return g.err
}

// Angle returns the aim angle in degrees from vertical.
func (g *Game) Angle() float64 {
	return g.angle
}

// AimPoint converts the aim angle to a play-area point.
func (g *Game) AimPoint() platformcore.Vec {
	return AimFromAngle(g.session.Launch(), g.angle)
}

// AimFromAngle returns a point in direction angle (degrees from vertical,
// positive to the right) as seen from launch.
func AimFromAngle(launch platformcore.Vec, angle float64) platformcore.Vec {
	rad := angle * math.Pi / 180
	return launch.Add(platformcore.V(math.Sin(rad), -math.Cos(rad)).Scale(aimReach))
}

// Step advances the game by one tick.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	g.tick++
	if g.messageLeft > 0 {
		g.messageLeft--
	}

	over := g.session.IsGameOver() || g.err != nil

	// Handle restart
	if input.Has(platformcore.ActionRestart) && over {
		g.Reset(platformcore.RuntimeConfig{
			Seed:    g.rng.Int63(),
			ScreenW: g.screenW,
			ScreenH: g.screenH,
		})
		return platformcore.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if input.Has(platformcore.ActionPause) && !over {
		g.paused = !g.paused
	}

	if over || g.paused || g.tooSmall {
		return platformcore.StepResult{State: g.State()}
	}

	aim := g.cfg.Aim
	prev := g.angle
	if input.Has(platformcore.ActionLeft) {
		g.angle -= aim.CoarseStep
	}
	if input.Has(platformcore.ActionRight) {
		g.angle += aim.CoarseStep
	}
	if input.Has(platformcore.ActionUp) {
		g.angle -= aim.FineStep
	}
	if input.Has(platformcore.ActionDown) {
		g.angle += aim.FineStep
	}
	g.angle = platformcore.ClampF(g.angle, -aim.MaxAngle, aim.MaxAngle)
	if g.angle != prev {
		g.refreshPreview()
	}

	if input.Has(platformcore.ActionFire) {
		g.fire()
	}

	return platformcore.StepResult{State: g.State()}
}

// fire shoots toward the current aim and applies difficulty scaling.
func (g *Game) fire() {
	res, err := g.session.Shoot(g.AimPoint())
	if err != nil {
		g.err = err
		g.setMessage("board error: "+err.Error(), platformcore.ColorBrightRed)
		return
	}
	if !res.Fired {
		g.setMessage("can't shoot: "+res.Skip.String(), platformcore.ColorGray)
		return
	}

	applyDifficulty(g.session, g.difficulty, g.cfg.Rules.ShotsPerCycle)
	g.refreshPreview()
}

// applyDifficulty sets the shot budget of the next cycle from the progress
// made so far.
func applyDifficulty(s *core.Session, dm *config.DifficultyManager, baseShots int) {
	if dm == nil || !dm.IsEnabled() {
		return
	}
	s.SetShotsPerCycle(dm.ShotsPerCycle(baseShots, s.Score(), s.Stats().ShotsFired))
}

func (g *Game) refreshPreview() {
	if g.session.IsGameOver() {
		return
	}
	g.session.UpdateTrajectoryPreview(g.AimPoint())
}

// onEvent turns engine events into the HUD message line.
func (g *Game) onEvent(e core.Event) {
	switch e.Kind {
	case core.EventClusterMatched:
		g.setMessage(fmt.Sprintf("Pop! %d %s bubbles +%d", e.Count, e.Color, e.Count*g.cfg.Rules.PointsPerBubble), colorFor(e.Color))
	case core.EventBubblesDropped:
		g.setMessage(fmt.Sprintf("Dropped %d bubbles! Score %d", e.Count, e.Score), platformcore.ColorBrightWhite)
	case core.EventGridCrept:
		g.setMessage("The ceiling creeps down!", platformcore.ColorOrange)
	case core.EventGameOver:
		g.setMessage("The bubbles reached the bottom", platformcore.ColorBrightRed)
	}
}

func (g *Game) setMessage(msg string, c platformcore.Color) {
	g.message = msg
	g.messageColor = c
	g.messageLeft = messageTicks
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		Score:    g.session.Score(),
		GameOver: g.session.IsGameOver() || g.err != nil,
		Paused:   g.paused,
	}
}

// RunSummary reports the counters of the current run.
func (g *Game) RunSummary() platformcore.RunSummary {
	st := g.session.Stats()
	return platformcore.RunSummary{
		Score:          g.session.Score(),
		ShotsFired:     st.ShotsFired,
		BubblesPopped:  st.BubblesPopped,
		BubblesDropped: st.BubblesDropped,
		Creeps:         st.Creeps,
		GameOver:       g.session.IsGameOver(),
	}
}

// Snapshot returns a hash of the game state for determinism checks.
func (g *Game) Snapshot() uint64 {
	return g.session.Hash() ^ math.Float64bits(g.angle)
}

// Board returns a plain text picture of the board.
func (g *Game) Board() string {
	return core.RenderASCII(g.session)
}
