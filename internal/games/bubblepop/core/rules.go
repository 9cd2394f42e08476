package core

import "fmt"

// Rules holds the tunable game constants.
type Rules struct {
	ShotsPerCycle     int     // Shots before the board creeps down
	MinMatch          int     // Smallest cluster that pops
	PointsPerBubble   int     // Score per popped bubble
	DropMultiplier    int     // Score multiplier for dropped bubbles
	GameOverMargin    float64 // Game over once a bubble is this close to the bottom
	InitialRows       int     // Rows filled by a fresh board
	ShotStep          float64 // Simulation step for committed shots
	PreviewStep       float64 // Distance between preview points
	PreviewMaxBounces int
	PreviewMaxPoints  int
	MaxShotSteps      int // Safety cap on committed shot steps
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		ShotsPerCycle:     10,
		MinMatch:          3,
		PointsPerBubble:   10,
		DropMultiplier:    2,
		GameOverMargin:    150,
		InitialRows:       6,
		ShotStep:          10,
		PreviewStep:       20,
		PreviewMaxBounces: 3,
		PreviewMaxPoints:  50,
		MaxShotSteps:      5000,
	}
}

// Validate checks that the rules describe a playable game.
func (r Rules) Validate() error {
	switch {
	case r.ShotsPerCycle < 1:
		return fmt.Errorf("rules: shots per cycle must be positive, got %d", r.ShotsPerCycle)
	case r.MinMatch < 1:
		return fmt.Errorf("rules: min match must be positive, got %d", r.MinMatch)
	case r.PointsPerBubble < 0 || r.DropMultiplier < 0:
		return fmt.Errorf("rules: scoring must be non-negative")
	case r.InitialRows < 0:
		return fmt.Errorf("rules: initial rows must be non-negative, got %d", r.InitialRows)
	case r.ShotStep <= 0:
		return fmt.Errorf("rules: shot step must be positive, got %.1f", r.ShotStep)
	case r.PreviewStep < r.ShotStep:
		return fmt.Errorf("rules: preview step %.1f below shot step %.1f", r.PreviewStep, r.ShotStep)
	case r.PreviewMaxPoints < 2:
		return fmt.Errorf("rules: preview needs at least 2 points, got %d", r.PreviewMaxPoints)
	}
	return nil
}

func (r Rules) simParams() SimParams {
	return SimParams{
		StepLen:           r.ShotStep,
		PreviewSpacing:    r.PreviewStep,
		PreviewMaxBounces: r.PreviewMaxBounces,
		PreviewMaxPoints:  r.PreviewMaxPoints,
		MaxSteps:          r.MaxShotSteps,
	}
}
