package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop/core"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

var (
	flagSimGames   int
	flagSimShots   int
	flagSimVerbose bool
	flagSimBoard   bool
	flagSimSave    bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless games with the autoplayer",
	Long: `Play games without a terminal UI. The autoplayer tries a fan of aim
angles and takes the shot that joins the largest same-color cluster.
Useful for tuning configs and difficulty presets.

Each game uses seed, seed+1, ... so runs are reproducible with --seed.

Examples:
  bubblepop sim
  bubblepop sim --games 20 --seed 42
  bubblepop sim --shots 100 --verbose --board
  bubblepop sim --difficulty hard --save`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimGames, "games", 5, "Number of games to play")
	simCmd.Flags().IntVar(&flagSimShots, "shots", 500, "Shot limit per game (0 = until game over)")
	simCmd.Flags().BoolVarP(&flagSimVerbose, "verbose", "v", false, "Log every engine event")
	simCmd.Flags().BoolVar(&flagSimBoard, "board", false, "Print the final board of each game")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record runs in the scores database")
}

// simResult is the outcome of one headless game.
type simResult struct {
	seed     int64
	score    int
	stats    core.Stats
	stop     bubblepop.StopReason
	gameOver bool
	duration time.Duration
}

func runSim(_ *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: flagSimVerbose,
		Prefix:          "sim",
	})
	if flagSimVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := bubblepop.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var store *storage.Store
	if flagSimSave {
		if store, err = storage.Open(flagDBPath); err != nil {
			return fmt.Errorf("opening scores database: %w", err)
		}
		defer store.Close()
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	bot := bubblepop.NewAutoplayer(cfg.Aim.MaxAngle, cfg.Aim.CoarseStep)
	results := make([]simResult, 0, flagSimGames)

	for i := range flagSimGames {
		res, err := simulate(cfg, bot, seed+int64(i), logger.With("game", i+1))
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		results = append(results, res)

		if store != nil {
			run, err := store.SaveRun(storage.RunRecord{
				GameID:         bubblepop.GameID,
				Player:         "sim",
				Score:          res.score,
				ShotsFired:     res.stats.ShotsFired,
				BubblesPopped:  res.stats.BubblesPopped,
				BubblesDropped: res.stats.BubblesDropped,
				Creeps:         res.stats.Creeps,
				Duration:       res.duration,
			})
			if err != nil {
				return fmt.Errorf("saving run: %w", err)
			}
			logger.Debug("run saved", "game", i+1, "run", run.RunID)
		}
	}

	printSimResults(results)
	return nil
}

// simulate plays one game to the end or to the shot limit.
func simulate(cfg config.BubblePopConfig, bot *bubblepop.Autoplayer, seed int64, logger *log.Logger) (simResult, error) {
	session, err := bubblepop.NewSessionFromConfig(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return simResult{}, err
	}
	session.Subscribe(core.ObserverFunc(func(e core.Event) {
		logger.Debug(e.String(), "shots", session.Stats().ShotsFired)
	}))

	start := time.Now()
	stats, stop, err := bot.Play(session, config.NewDifficultyManager(cfg.Difficulty), cfg.Rules.ShotsPerCycle, flagSimShots)
	if err != nil {
		return simResult{}, err
	}

	logger.Info("finished",
		"seed", seed,
		"score", session.Score(),
		"shots", stats.ShotsFired,
		"stop", stop,
	)
	if flagSimBoard {
		fmt.Println(core.RenderASCII(session))
	}

	return simResult{
		seed:     seed,
		score:    session.Score(),
		stats:    stats,
		stop:     stop,
		gameOver: session.IsGameOver(),
		duration: time.Since(start),
	}, nil
}

func printSimResults(results []simResult) {
	if len(results) == 0 {
		return
	}

	t := newTable().Headers("Game", "Seed", "Score", "Shots", "Popped", "Dropped", "Creeps", "Result")
	total, best, overs := 0, 0, 0
	for i, r := range results {
		t.Row(
			strconv.Itoa(i+1),
			strconv.FormatInt(r.seed, 10),
			strconv.Itoa(r.score),
			strconv.Itoa(r.stats.ShotsFired),
			strconv.Itoa(r.stats.BubblesPopped),
			strconv.Itoa(r.stats.BubblesDropped),
			strconv.Itoa(r.stats.Creeps),
			r.stop.String(),
		)
		total += r.score
		best = max(best, r.score)
		if r.gameOver {
			overs++
		}
	}
	fmt.Println(t)
	fmt.Printf("Average score: %.1f  Best: %d  Game overs: %d/%d\n",
		float64(total)/float64(len(results)), best, overs, len(results))
}
