package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/registry"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

// Ticks a status line (screenshot saved, board copied) stays visible.
const statusTicks = 90

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the Bubble Tea model for running a game, locally or over SSH.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState

	player    string // SSH user, empty when playing locally
	allowBack bool   // Esc/B returns to the menu instead of doing nothing
	started   time.Time

	status     string
	statusLeft int

	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
	lastRun    *storage.RunRecord
}

// ModelOption customizes a Model.
type ModelOption func(*Model)

// WithLogger logs finished runs.
func WithLogger(l *log.Logger) ModelOption {
	return func(m *Model) { m.logger = l }
}

// WithPlayer tags saved runs with an SSH user name. Remote players cannot
// write screenshots or use the clipboard of the server.
func WithPlayer(name string) ModelOption {
	return func(m *Model) { m.player = name }
}

// WithBackToMenu lets Esc/B leave the game when it is over or paused.
func WithBackToMenu() ModelOption {
	return func(m *Model) { m.allowBack = true }
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		started:    time.Now(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.help.Width = cfg.ScreenW
	// Last line is reserved for status and help
	m.config.ScreenH = max(1, cfg.ScreenH-1)
	m.screen = core.NewScreen(m.config.ScreenW, m.config.ScreenH)
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Copy):
		m.copyBoard()
		return m, nil
	case key.Matches(msg, keys.Back):
		if m.allowBack && (m.gameState.GameOver || m.gameState.Paused) {
			m.backToMenu = true
			return m, tea.Quit
		}
		// Esc also pauses
		m.inputFrame.Set(core.ActionPause)
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize processes window resize events.
// The game adapts its layout on the next Render, so state is kept.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = max(1, msg.Height-1)
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.statusLeft > 0 {
		m.statusLeft--
	}

	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.started = time.Now()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.recordRun()
		m.scoreSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// recordRun stores the score and run statistics once per game over.
func (m *Model) recordRun() {
	if m.store == nil {
		return
	}
	if m.gameState.Score > 0 {
		//nolint:errcheck // Best-effort save, game continues regardless
		m.store.SaveScore(m.game.ID(), m.gameState.Score)
	}

	reporter, ok := m.game.(registry.RunReporter)
	if !ok {
		return
	}
	sum := reporter.RunSummary()
	run, err := m.store.SaveRun(storage.RunRecord{
		GameID:         m.game.ID(),
		Player:         m.player,
		Score:          sum.Score,
		ShotsFired:     sum.ShotsFired,
		BubblesPopped:  sum.BubblesPopped,
		BubblesDropped: sum.BubblesDropped,
		Creeps:         sum.Creeps,
		Duration:       time.Since(m.started),
	})
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("could not save run", "player", m.player, "error", err)
		}
		return
	}
	m.lastRun = &run
	if m.logger != nil {
		m.logger.Info("run finished",
			"player", run.Player,
			"run", run.RunID,
			"score", run.Score,
			"shots", run.ShotsFired,
			"duration", run.Duration.Round(time.Second),
		)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	if m.player != "" {
		m.setStatus("Screenshots are not available over SSH")
		return
	}

	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.setStatus("Screenshot failed: " + err.Error())
		return
	}
	dir := filepath.Join(home, ".bubblepop", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.setStatus("Screenshot failed: " + err.Error())
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.setStatus("Screenshot failed: " + err.Error())
		return
	}
	m.setStatus("Saved " + path)
}

// copyBoard puts a plain text board on the system clipboard.
func (m *Model) copyBoard() {
	snap, ok := m.game.(registry.Snapshotter)
	switch {
	case !ok:
		m.setStatus("This game cannot export its board")
		return
	case m.player != "":
		m.setStatus("Clipboard is not available over SSH")
		return
	case clipboard.Unsupported:
		m.setStatus("No clipboard utility found")
		return
	}
	if err := clipboard.WriteAll(snap.Board()); err != nil {
		m.setStatus("Copy failed: " + err.Error())
		return
	}
	m.setStatus("Board copied to clipboard")
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusLeft = statusTicks
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)

	footer := helpStyle.Render(m.help.View(m.keyMapper.Keys()))
	if m.statusLeft > 0 {
		footer = statusStyle.Render(m.status)
	}
	return RenderScreen(m.screen) + "\n" + footer
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// LastRun returns the most recently saved run, or nil.
func (m Model) LastRun() *storage.RunRecord {
	return m.lastRun
}

// Status returns the transient status line, empty when none is shown.
func (m Model) Status() string {
	if m.statusLeft == 0 {
		return ""
	}
	return m.status
}

// Run starts the Bubble Tea program with the given model.
// Returns true if the player asked to go back to the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) (backToMenu bool, err error) {
	model := NewModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(Model); ok {
		return m.BackToMenu(), nil
	}
	return false, nil
}
