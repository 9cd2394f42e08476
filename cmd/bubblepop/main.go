// bubblepop is a bubble shooter for the terminal.
//
// Usage:
//
//	bubblepop play           - Play a game
//	bubblepop menu           - Start the title menu
//	bubblepop serve          - Start SSH server for remote play
//	bubblepop scores         - Show high scores and recent runs
//	bubblepop stats          - Show aggregated statistics
//	bubblepop sim            - Run headless games with the autoplayer
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.bubblepop/scores.db)
//	--config <path>       - Custom game config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bubblepop",
	Short: "Bubble Pop - a bubble shooter in your terminal",
	Long: `Bubble Pop is a bubble shooter for the terminal. Aim the launcher,
match three or more bubbles of the same color to pop them, and drop
everything hanging below. Every few shots the ceiling creeps down.

Available commands:
  play     - Play a game directly
  menu     - Title menu with difficulty picker and scores
  serve    - Start SSH server for remote play
  scores   - View high scores and recent runs
  stats    - View aggregated statistics
  sim      - Run headless games with the autoplayer

Examples:
  bubblepop play
  bubblepop play --difficulty hard
  bubblepop menu
  bubblepop serve --ssh :2222
  bubblepop sim --games 10 --seed 42`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if _, ok := config.ParsePreset(flagDifficulty); flagDifficulty != "" && !ok {
			return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		// Games read these when they are created
		bubblepop.SetConfigPath(flagConfig)
		bubblepop.SetDifficultyPreset(flagDifficulty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bubblepop/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(simCmd)
}

// openStore opens the scores database, warning instead of failing so the
// game still works without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}
