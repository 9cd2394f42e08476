package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop"
	"github.com/vovakirdan/bubblepop/internal/platform/tui"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing Bubble Pop.

Controls:
  Left/Right, H/L  - Aim (coarse)
  Up/Down, K/J     - Aim (fine)
  Space/Enter      - Fire
  P/Esc            - Pause
  R                - Restart (after game over)
  Ctrl+S           - Save a screenshot to ~/.bubblepop/screenshots
  Ctrl+Y           - Copy the board to the clipboard
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - 10 shots per cycle, 4 starting rows
  normal - 10 shots per cycle, 6 starting rows
  hard   - 7 starting rows, the cycle shrinks as shots are fired
  fixed  - Config rules, no progression

Examples:
  bubblepop play
  bubblepop play --difficulty easy
  bubblepop play --seed 42
  bubblepop play --config ./my-bubblepop.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

// terminalConfig returns a runtime config sized to the terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(_ *cobra.Command, _ []string) error {
	game, err := registry.Create(bubblepop.GameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	// Continue without storage - game still works
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if _, err := tui.Run(game, store, terminalConfig()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the title menu",
	Long: `Start Bubble Pop in interactive menu mode.

Pick a difficulty to play, or open the scoreboard. After a game, press
Esc or B (while paused or after game over) to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Scoreboard
  Q            - Quit

Examples:
  bubblepop menu
  bubblepop menu --fps 30
  bubblepop menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := terminalConfig()
	for {
		menuResult, err := tui.RunMenu(store, cfg, bubblepop.GameID)
		if err != nil {
			return err
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, bubblepop.GameID, "Bubble Pop", cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if goBack {
				continue
			}
			return nil
		}

		game := bubblepop.New()
		game.SetDifficulty(menuResult.Preset)

		// New seed per game unless one was given
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		back, err := tui.Run(game, store, cfg, tui.WithBackToMenu())
		if err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		if !back {
			return nil
		}
	}
}
