package main

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/games/bubblepop"
)

func TestSimulateDeterministic(t *testing.T) {
	flagSimShots = 40
	t.Cleanup(func() { flagSimShots = 500 })

	cfg := config.DefaultBubblePopConfig()
	bot := bubblepop.NewAutoplayer(cfg.Aim.MaxAngle, cfg.Aim.CoarseStep)
	logger := log.New(io.Discard)

	a, err := simulate(cfg, bot, 42, logger)
	if err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}
	b, err := simulate(cfg, bot, 42, logger)
	if err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}

	if a.score != b.score || a.stats != b.stats || a.stop != b.stop {
		t.Errorf("same seed gave different games: %+v vs %+v", a, b)
	}
	if a.stats.ShotsFired > 40 {
		t.Errorf("ShotsFired = %d, limit was 40", a.stats.ShotsFired)
	}
	if a.gameOver != (a.stop == bubblepop.StopGameOver) {
		t.Errorf("stop = %v but gameOver = %v", a.stop, a.gameOver)
	}
}

func TestPortOf(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":23234", "23234"},
		{"0.0.0.0:2222", "2222"},
		{"[::1]:22", "22"},
		{"nonsense", "nonsense"},
	}
	for _, tt := range tests {
		if got := portOf(tt.addr); got != tt.want {
			t.Errorf("portOf(%q) = %q, expected %q", tt.addr, got, tt.want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0b7c2d4e-1111-2222-3333-444455556666"); got != "0b7c2d4e" {
		t.Errorf("shortID() = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID() = %q", got)
	}
}
