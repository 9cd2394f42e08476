package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

// MenuItemKind says what selecting a menu item does.
type MenuItemKind int

const (
	MenuItemPlay MenuItemKind = iota
	MenuItemScores
	MenuItemQuit
)

// MenuItem represents a selectable entry in the title menu.
type MenuItem struct {
	Kind   MenuItemKind
	Label  string
	Preset string // Difficulty preset for MenuItemPlay
	Hint   string
}

// DefaultMenuItems returns the title menu entries.
func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{Kind: MenuItemPlay, Label: "Play - Normal", Preset: "normal", Hint: "10 shots per cycle, 6 starting rows"},
		{Kind: MenuItemPlay, Label: "Play - Easy", Preset: "easy", Hint: "10 shots per cycle, 4 starting rows"},
		{Kind: MenuItemPlay, Label: "Play - Hard", Preset: "hard", Hint: "7 starting rows, fewer shots per cycle the longer you play"},
		{Kind: MenuItemPlay, Label: "Play - Fixed", Preset: "fixed", Hint: "Configured rules, no progression"},
		{Kind: MenuItemScores, Label: "High Scores", Hint: "Top scores and recent runs"},
		{Kind: MenuItemQuit, Label: "Quit"},
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the title menu.
type MenuModel struct {
	gameID    string
	items     []MenuItem
	cursor    int
	width     int
	height    int
	best      int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem // Set when user selects an item
}

// NewMenuModel creates a new menu model. The best score for gameID is read
// from store when one is available.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, gameID string) MenuModel {
	m := MenuModel{
		gameID:    gameID,
		items:     DefaultMenuItems(),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	if store != nil {
		if best, err := store.HighScore(gameID); err == nil {
			m.best = best
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionScoreboard:
		for i, item := range m.items {
			if item.Kind == MenuItemScores {
				m.cursor = i
				break
			}
		}
		return m.selectCurrent()

	case MenuActionSelect:
		return m.selectCurrent()
	}

	return m, nil
}

func (m MenuModel) selectCurrent() (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	selected := m.items[m.cursor]
	if selected.Kind == MenuItemQuit {
		m.quitting = true
	} else {
		m.selected = &selected
	}
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("B U B B L E   P O P"), m.width))
	b.WriteString("\n\n")

	subtitle := "Match three or more to pop them"
	if m.best > 0 {
		subtitle = fmt.Sprintf("Best score: %d", m.best)
	}
	b.WriteString(centerText(dimStyle.Render(subtitle), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Label
		if i == m.cursor {
			line = cursorStyle.Render("> " + item.Label)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if hint := m.items[m.cursor].Hint; hint != "" {
		b.WriteString(centerText(dimStyle.Render(hint), m.width))
	}
	b.WriteString("\n\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width, ignoring ANSI styling.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Preset          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, gameID string) (MenuResult, error) {
	model := NewMenuModel(store, cfg, gameID)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch sel := m.Selected(); {
	case sel == nil:
		result.Quit = true
	case sel.Kind == MenuItemScores:
		result.WantsScoreboard = true
	default:
		result.Preset = sel.Preset
	}
	return result, nil
}
