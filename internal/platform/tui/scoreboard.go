package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bubblepop/internal/storage"
)

// Scoreboard layout constants
const (
	maxScores = 100 // Max rows to load per view
	maxRuns   = 50
)

// ScoreboardView selects the table shown by the scoreboard.
type ScoreboardView int

const (
	ViewTopScores ScoreboardView = iota
	ViewRecentRuns
)

func (v ScoreboardView) String() string {
	if v == ViewRecentRuns {
		return "Recent Runs"
	}
	return "Top Scores"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	SwitchView key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.SwitchView, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchView},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "scores/runs"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	gameID    string
	title     string
	store     *storage.Store
	view      ScoreboardView
	scores    []storage.ScoreEntry
	runs      []storage.RunRecord
	stats     *storage.GameStats
	loadErr   error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, gameID, title string, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := ScoreboardModel{
		gameID: gameID,
		title:  title,
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// load reads scores, runs and stats from the store.
func (m *ScoreboardModel) load() {
	m.scores, m.runs, m.stats, m.loadErr = nil, nil, nil, nil
	if m.store == nil {
		return
	}
	if m.scores, m.loadErr = m.store.TopScores(m.gameID, maxScores); m.loadErr != nil {
		return
	}
	if m.runs, m.loadErr = m.store.RecentRuns(m.gameID, maxRuns); m.loadErr != nil {
		return
	}
	m.stats, m.loadErr = m.store.GetGameStats(m.gameID)
}

// columns returns the table columns for the current view.
func (m *ScoreboardModel) columns() []table.Column {
	if m.view == ViewRecentRuns {
		return []table.Column{
			{Title: "Player", Width: 12},
			{Title: "Score", Width: 8},
			{Title: "Shots", Width: 6},
			{Title: "Popped", Width: 7},
			{Title: "Dropped", Width: 8},
			{Title: "Time", Width: 7},
			{Title: "Date", Width: 13},
		}
	}

	dateWidth := min(20, max(13, m.width-30))
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 12},
		{Title: "Date", Width: dateWidth},
	}
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)), // Leave room for header, stats, help and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the loaded data.
func (m *ScoreboardModel) updateTableRows() {
	var rows []table.Row
	if m.view == ViewRecentRuns {
		rows = make([]table.Row, len(m.runs))
		for i, r := range m.runs {
			rows[i] = table.Row{
				r.Player,
				strconv.Itoa(r.Score),
				strconv.Itoa(r.ShotsFired),
				strconv.Itoa(r.BubblesPopped),
				strconv.Itoa(r.BubblesDropped),
				formatDuration(r.Duration),
				r.CreatedAt.Format("Jan 02 15:04"),
			}
		}
	} else {
		rows = make([]table.Row, len(m.scores))
		for i, s := range m.scores {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				strconv.Itoa(s.Score),
				s.CreatedAt.Format("Jan 02 15:04"),
			}
		}
	}
	// Columns change between views; clear rows first so widths never mismatch
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// formatDuration renders a run length as m:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.SwitchView):
			m.view = 1 - m.view
			m.updateTableRows()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("%s - %s", strings.ToUpper(m.title), m.view)
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	if line := m.statsLine(); line != "" {
		b.WriteString(centerText(dimStyle.Render(line), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes aggregated statistics.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.RunsCount == 0 {
		return ""
	}
	s := m.stats
	return fmt.Sprintf("%d runs | best %d | avg %.0f | %d popped | %d dropped | %s played",
		s.RunsCount, s.HighScore, s.AvgScore, s.TotalPopped, s.TotalDropped, formatDuration(s.TotalPlayTime))
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Score database unavailable.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load scores:\n" + m.loadErr.Error())
	case m.view == ViewTopScores && len(m.scores) == 0,
		m.view == ViewRecentRuns && len(m.runs) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// CurrentView returns the table being shown.
func (m ScoreboardModel) CurrentView() ScoreboardView {
	return m.view
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, gameID, title string, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, gameID, title, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
