package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bubblepop/internal/games/bubblepop"
	"github.com/vovakirdan/bubblepop/internal/platform/tui"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

var (
	flagScoresLimit       int
	flagScoresRuns        bool
	flagScoresInteractive bool
	flagScoresClear       bool
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top high scores, or the most recent runs with --runs.

Examples:
  bubblepop scores
  bubblepop scores --limit 20
  bubblepop scores --runs
  bubblepop scores -i        # Interactive scoreboard
  bubblepop scores --clear   # Delete all scores and runs`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagScoresRuns, "runs", false, "Show recent runs instead of top scores")
	scoresCmd.Flags().BoolVarP(&flagScoresInteractive, "interactive", "i", false, "Open the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded scores and runs")
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	switch {
	case flagScoresClear:
		if err := store.ClearScores(bubblepop.GameID); err != nil {
			return err
		}
		fmt.Println("All scores and runs deleted.")
		return nil

	case flagScoresInteractive:
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		_, err := tui.RunScoreboard(store, bubblepop.GameID, "Bubble Pop", width, height)
		return err

	case flagScoresRuns:
		return printRuns(store)
	}

	scores, err := store.TopScores(bubblepop.GameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Println("High Scores - Bubble Pop")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'bubblepop play' to set the first high score!")
		return nil
	}

	t := newTable().Headers("Rank", "Score", "Date")
	for i, entry := range scores {
		t.Row(strconv.Itoa(i+1), strconv.Itoa(entry.Score), entry.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println(t)
	return nil
}

func printRuns(store *storage.Store) error {
	runs, err := store.RecentRuns(bubblepop.GameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	fmt.Println("Recent Runs - Bubble Pop")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	t := newTable().Headers("Run", "Player", "Score", "Shots", "Popped", "Dropped", "Creeps", "Time", "Date")
	for _, r := range runs {
		t.Row(
			shortID(r.RunID),
			r.Player,
			strconv.Itoa(r.Score),
			strconv.Itoa(r.ShotsFired),
			strconv.Itoa(r.BubblesPopped),
			strconv.Itoa(r.BubblesDropped),
			strconv.Itoa(r.Creeps),
			r.Duration.Round(time.Second).String(),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(t)
	return nil
}

// shortID trims a UUID to its first group for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
