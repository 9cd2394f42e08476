package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblepop/internal/games/bubblepop"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated statistics",
	Long: `Display totals over every recorded game: scores, shots fired,
bubbles popped and dropped, ceiling creeps and time played.

Examples:
  bubblepop stats
  bubblepop stats --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	stats, err := store.GetGameStats(bubblepop.GameID)
	if err != nil {
		return err
	}

	fmt.Println("Statistics - Bubble Pop")
	fmt.Println()

	if stats.GamesCount == 0 && stats.RunsCount == 0 {
		fmt.Println("No games recorded yet.")
		return nil
	}

	lastPlayed := "-"
	if !stats.LastPlayed.IsZero() {
		lastPlayed = stats.LastPlayed.Format("2006-01-02 15:04")
	}

	t := newTable().Headers("Stat", "Value")
	t.Row("Scored games", strconv.Itoa(stats.GamesCount))
	t.Row("High score", strconv.Itoa(stats.HighScore))
	t.Row("Average score", fmt.Sprintf("%.1f", stats.AvgScore))
	t.Row("Total score", strconv.FormatInt(stats.TotalScore, 10))
	t.Row("Runs", strconv.Itoa(stats.RunsCount))
	t.Row("Shots fired", strconv.FormatInt(stats.TotalShots, 10))
	t.Row("Bubbles popped", strconv.FormatInt(stats.TotalPopped, 10))
	t.Row("Bubbles dropped", strconv.FormatInt(stats.TotalDropped, 10))
	t.Row("Ceiling creeps", strconv.FormatInt(stats.TotalCreeps, 10))
	t.Row("Longest run", fmt.Sprintf("%d shots", stats.LongestRunShot))
	t.Row("Time played", stats.TotalPlayTime.Round(time.Second).String())
	t.Row("Last played", lastPlayed)
	fmt.Println(t)
	return nil
}
