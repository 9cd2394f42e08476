package config

// DifficultyManager calculates dynamic game parameters based on score/shots.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/shots.
func (d *DifficultyManager) Level(score int, shots int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "shots":
		progress = float64(shots) / maxAt
	default:
		return d.initialLevel
	}

	// Clamp progress to [0, 1]
	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// ShotsPerCycle returns how many shots the player gets before the next
// creep down. Disabled progression always returns base.
func (d *DifficultyManager) ShotsPerCycle(base int, score int, shots int) int {
	if !d.IsEnabled() {
		return base
	}
	level := d.Level(score, shots)
	// Shots decrease as difficulty increases
	reduction := int(level * float64(d.cfg.Scaling.ShotsReduction))
	floor := min(base, max(1, d.cfg.Scaling.MinShots))
	return max(floor, base-reduction)
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	return min(hi, max(lo, val))
}
